package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitforce/ambassador/pkg/errs"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Unix(1_700_000_000, 0)
	header := SignatureHeader(payload, "whsec_test", now)

	require.NoError(t, VerifySignature(payload, header, "whsec_test", now.Add(time.Minute), 5*time.Minute))

	cases := map[string]struct {
		payload []byte
		header  string
		secret  string
		at      time.Time
	}{
		"wrong secret":     {payload, header, "other", now},
		"tampered payload": {[]byte(`{"id":"evt_2"}`), header, "whsec_test", now},
		"too old":          {payload, header, "whsec_test", now.Add(6 * time.Minute)},
		"from the future":  {payload, header, "whsec_test", now.Add(-6 * time.Minute)},
		"malformed":        {payload, "garbage", "whsec_test", now},
		"no secret":        {payload, header, "", now},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := VerifySignature(tc.payload, tc.header, tc.secret, tc.at, 5*time.Minute)
			require.ErrorIs(t, err, ErrInvalidSignature)
			require.ErrorIs(t, err, errs.ErrUnauthorized)
		})
	}
}

func TestVerifySignature_AcceptsAnyV1(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)
	good := SignatureHeader(payload, "s", now)
	header := "t=1700000000,v1=deadbeef," + good[len("t=1700000000,"):]
	require.NoError(t, VerifySignature(payload, header, "s", now, time.Minute))
}
