package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/bitforce/ambassador/internal/app/api/middleware"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/response"
)

var errNotAmbassador = fmt.Errorf("%w: ambassador signup required", errs.ErrNotFound)

// nopLog backs handlers mounted without the request logger middleware.
var nopLog = zap.NewNop().Sugar()

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, msg))
}

// fail writes the error envelope; unexpected errors are logged with the
// request logger.
func fail(c *gin.Context, err error) {
	res := response.FromError(err)
	if res.Code >= response.APIResponseCodeError {
		logctx.FromGin(c, nopLog).Errorw("request_failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(http.StatusOK, res)
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

// currentAmbassador resolves the ambassador record of the authenticated user.
func currentAmbassador(c *gin.Context, ref *referral.Service) (*models.AmbassadorSubscription, error) {
	amb, err := ref.GetByUserID(c.Request.Context(), mw.UserID(c))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errNotAmbassador
	}
	return amb, err
}
