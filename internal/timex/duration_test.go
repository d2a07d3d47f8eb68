package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", in: `"30m"`, want: 30 * time.Minute},
		{name: "hours string", in: `"24h"`, want: 24 * time.Hour},
		{name: "integer nanoseconds", in: `1000000000`, want: time.Second},
		{name: "invalid string", in: `"not-a-duration"`, wantErr: true},
		{name: "invalid type", in: `{"x":1}`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Minute}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1h30m0s"`, string(b))
}
