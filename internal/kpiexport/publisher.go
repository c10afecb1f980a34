package kpiexport

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"go.uber.org/zap"
)

const namespace = "workforcekpi"

// Publisher exports a KPI result set as Prometheus gauges. A nil pusher
// turns Publish into a no-op.
type Publisher struct {
	pusher Pusher
	log    *zap.Logger
}

func NewPublisher(pusher Pusher, log *zap.Logger) *Publisher {
	return &Publisher{pusher: pusher, log: log.Named("kpi.export")}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.pusher != nil
}

func (p *Publisher) Publish(ctx context.Context, companyID int64, data kpidomain.Data) error {
	if !p.Enabled() {
		return nil
	}
	registry := BuildRegistry(companyID, data)
	if err := p.pusher.Push(ctx, registry); err != nil {
		p.log.Warn("kpi export failed", zap.Int64("company_id", companyID), zap.Error(err))
		return err
	}
	p.log.Info("kpis exported", zap.Int64("company_id", companyID))
	return nil
}

// BuildRegistry renders the KPIs into a fresh registry of gauges.
func BuildRegistry(companyID int64, data kpidomain.Data) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	company := prometheus.Labels{"company_id": strconv.FormatInt(companyID, 10)}

	gauge := func(name, help string, value float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: company,
		})
		g.Set(value)
		registry.MustRegister(g)
	}

	gauge("total_employees", "Total employees in the reporting scope.", float64(data.TurnoverRate.TotalEmployees))
	gauge("disability_percentage", "Percentage of employees with disabilities.", data.DisabilityPercentage.OverallPercentage)
	gauge("turnover_rate", "Employee turnover rate in percent.", data.TurnoverRate.OverallTurnoverRate)
	gauge("average_training_hours", "Average training hours per employee.", data.AverageTrainingHours.OverallAverageHours)
	gauge("injury_rate", "Workplace injuries per employee.", data.InjuryRate.OverallInjuryRate)

	byGender := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "employees_by_gender",
		Help:        "Employees per gender.",
		ConstLabels: company,
	}, []string{"gender"})
	for _, entry := range data.WorkforceByGender {
		byGender.WithLabelValues(entry.Gender).Add(float64(entry.EmployeeCount))
	}
	registry.MustRegister(byGender)

	unitTurnover := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "unit_turnover_rate",
		Help:        "Employee turnover rate per organizational unit in percent.",
		ConstLabels: company,
	}, []string{"unit_id", "unit_name"})
	for _, entry := range data.TurnoverByUnit {
		unitTurnover.WithLabelValues(strconv.FormatInt(entry.OrganizationalUnitID, 10), entry.OrganizationalUnitName).
			Set(entry.TurnoverRate)
	}
	registry.MustRegister(unitTurnover)

	return registry
}
