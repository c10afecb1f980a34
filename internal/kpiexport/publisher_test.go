package kpiexport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/prompb"
	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/protoadapt"
)

func sampleData() kpidomain.Data {
	return kpidomain.Data{
		WorkforceByGender: []kpidomain.GenderCount{{Gender: "Male", EmployeeCount: 430}, {Gender: "Female", EmployeeCount: 379}},
		TurnoverRate:      kpidomain.TurnoverRate{OverallTurnoverRate: 13.16, TotalEmployees: 809},
		InjuryRate:        kpidomain.InjuryRate{OverallInjuryRate: 0.0285},
		TurnoverByUnit: []kpidomain.UnitTurnover{
			{OrganizationalUnitID: 10, OrganizationalUnitName: "Operations", TurnoverRate: 13.16},
		},
	}
}

func TestBuildRemoteWriteSeries(t *testing.T) {
	families, err := BuildRegistry(7, sampleData()).Gather()
	require.NoError(t, err)

	series := buildRemoteWriteSeries(families, 1000)
	values := map[string]float64{}
	for _, ts := range series {
		var name, gender string
		for _, l := range ts.Labels {
			switch l.Name {
			case "__name__":
				name = l.Value
			case "gender":
				gender = l.Value
			case "company_id":
				assert.Equal(t, "7", l.Value)
			}
		}
		values[name+gender] = ts.Samples[0].Value
		assert.Equal(t, int64(1000), ts.Samples[0].Timestamp)
	}

	assert.Equal(t, 13.16, values["workforcekpi_turnover_rate"])
	assert.Equal(t, 0.0285, values["workforcekpi_injury_rate"])
	assert.Equal(t, 430.0, values["workforcekpi_employees_by_genderMale"])
	assert.Equal(t, 13.16, values["workforcekpi_unit_turnover_rate"])
}

func TestRemoteWritePusher(t *testing.T) {
	var got prompb.WriteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snappy", r.Header.Get("Content-Encoding"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		payload, err := snappy.Decode(nil, body)
		require.NoError(t, err)
		require.NoError(t, proto.Unmarshal(payload, protoadapt.MessageV2Of(&got)))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pusher := NewPusher(config.Config{Export: config.ExportConfig{
		Enabled:   true,
		Exporter:  exporterPrometheusRemoteWrite,
		Endpoint:  srv.URL,
		AuthToken: "secret",
	}}, zap.NewNop())
	require.NotNil(t, pusher)

	publisher := NewPublisher(pusher, zap.NewNop())
	require.NoError(t, publisher.Publish(context.Background(), 7, sampleData()))
	assert.NotEmpty(t, got.Timeseries)
}

func TestRemoteWritePusher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	publisher := NewPublisher(NewRemoteWritePusher(srv.URL, ""), zap.NewNop())
	assert.Error(t, publisher.Publish(context.Background(), 1, sampleData()))
}

func TestNewPusher_Disabled(t *testing.T) {
	assert.Nil(t, NewPusher(config.Config{}, zap.NewNop()))
	assert.Nil(t, NewPusher(config.Config{Export: config.ExportConfig{Enabled: true, Exporter: "carrier_pigeon", Endpoint: "x"}}, zap.NewNop()))

	publisher := NewPublisher(nil, zap.NewNop())
	assert.False(t, publisher.Enabled())
	assert.NoError(t, publisher.Publish(context.Background(), 1, sampleData()))
}
