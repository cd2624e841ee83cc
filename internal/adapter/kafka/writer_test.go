package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	report := domain.WeatherReport{
		Location:  "London",
		FetchedAt: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
		Alerts: []domain.Alert{
			domain.NewAlert("Wind Warning", "", "", domain.SeverityAmber,
				time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC),
				time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC),
				domain.SourceRegionFeed),
			domain.NewAlert("Fog Warning", "", "", domain.SeverityYellow,
				time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC),
				domain.SourceForecastModel),
		},
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("London"), msg.Key)

	var got domain.WeatherReport
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "London", got.Location)
	require.Len(t, got.Alerts, 2)
	assert.Equal(t, "Wind Warning", got.Alerts[0].Event)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "2", headers["alert_count"])
	assert.Equal(t, "2026-01-02T09:00:00Z", headers["fetched_at"])
}
