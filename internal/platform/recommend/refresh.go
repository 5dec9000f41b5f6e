package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/logctx"
)

// Notifier asks the external recommendation engine to rebuild suggestions
// for a lead. Requests are fire-and-forget.
type Notifier struct {
	url  string
	http *http.Client
	log  *zap.SugaredLogger
	wg   sync.WaitGroup
}

func New(url string, timeout time.Duration, log *zap.SugaredLogger) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{url: url, http: &http.Client{Timeout: timeout}, log: log}
}

func NewNotifier(lc fx.Lifecycle, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Notifier {
	n := New(cfg.Recommendations.RefreshURL, 5*time.Second, log)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		n.Wait()
		return nil
	}})
	return n
}

// TriggerRefresh posts {"lead_id": ...} in the background and reports
// whether a request was dispatched.
func (n *Notifier) TriggerRefresh(ctx context.Context, leadID string) bool {
	if n == nil || n.url == "" {
		return false
	}
	lg := logctx.FromCtx(ctx, n.log)
	body, _ := json.Marshal(map[string]string{"lead_id": leadID})
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.post(context.WithoutCancel(ctx), body); err != nil {
			lg.Warnw("recommendation_refresh_failed", "lead_id", leadID, "err", err)
			return
		}
		lg.Infow("recommendation_refresh_sent", "lead_id", leadID)
	}()
	return true
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("refresh returned status %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until all in-flight refresh requests finish.
func (n *Notifier) Wait() { n.wg.Wait() }

var Module = fx.Options(
	fx.Provide(NewNotifier),
)
