package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReportLayout describes the structure of a generated management report.
type ReportLayout struct {
	Cover      CoverLayout     `mapstructure:"cover_page"`
	KPISummary SummaryLayout   `mapstructure:"kpi_summary"`
	Visuals    VisualsLayout   `mapstructure:"visuals"`
	Narrative  NarrativeLayout `mapstructure:"narrative"`
	Closing    ClosingLayout   `mapstructure:"closing"`
}

type CoverLayout struct {
	Title            string `mapstructure:"title"`
	ShowDate         bool   `mapstructure:"show_date"`
	ShowConfidential bool   `mapstructure:"show_confidential"`
	ShowLogo         bool   `mapstructure:"show_logo"`
}

type SummaryLayout struct {
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Columns     []string `mapstructure:"columns"`
}

type VisualsLayout struct {
	Title      string   `mapstructure:"title"`
	ChartOrder []string `mapstructure:"chart_order"`
}

type NarrativeLayout struct {
	Title    string             `mapstructure:"title"`
	Sections []NarrativeSection `mapstructure:"sections"`
}

type NarrativeSection struct {
	Title string `mapstructure:"title"`
	Key   string `mapstructure:"key"`
}

type ClosingLayout struct {
	Title      string `mapstructure:"title"`
	Key        string `mapstructure:"key"`
	FooterNote string `mapstructure:"footer_note"`
}

func DefaultReportLayout() ReportLayout {
	return ReportLayout{
		Cover: CoverLayout{
			Title:            "ESRS S1 Management Report",
			ShowDate:         true,
			ShowConfidential: true,
			ShowLogo:         true,
		},
		KPISummary: SummaryLayout{
			Title:       "KPI Summary",
			Description: "Summary of headline KPIs, workforce statistics, and performance metrics.",
			Columns:     []string{"Metric", "Value"},
		},
		Visuals: VisualsLayout{
			Title: "KPI Visualizations",
			ChartOrder: []string{
				"workforce_by_gender",
				"training_hours_by_gender",
				"trend_training_hours_per_employee",
				"kpi_summary",
			},
		},
		Narrative: NarrativeLayout{
			Title: "Narrative",
			Sections: []NarrativeSection{
				{Title: "Executive Summary", Key: "executive_summary"},
				{Title: "1. Workforce Composition and Diversity", Key: "workforce_composition_and_diversity"},
				{Title: "2. Working Conditions and Equal Opportunity", Key: "working_conditions_and_equal_opportunity"},
				{Title: "3. Training and Development", Key: "training_and_development"},
				{Title: "4. Turnover and Retention", Key: "turnover_and_retention"},
				{Title: "5. Health and Safety", Key: "health_and_safety"},
				{Title: "6. Outlook and Next Steps", Key: "outlook_and_next_steps"},
			},
		},
		Closing: ClosingLayout{
			Title:      "Closing",
			Key:        "closing",
			FooterNote: "End of Report — Confidential",
		},
	}
}

type LayoutHolder struct {
	current atomic.Value // holds ReportLayout
}

// NewLayoutHolder loads report.yml and keeps it current while the file changes.
func NewLayoutHolder(cfg Config, log *zap.Logger) (*LayoutHolder, error) {
	v := viper.New()

	v.SetConfigName("report")
	v.SetConfigType("yml")
	if cfg.ReportLayoutPath != "" {
		v.AddConfigPath(cfg.ReportLayoutPath)
	}
	v.AddConfigPath("/etc/workforcekpi")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WORKFORCEKPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &LayoutHolder{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultReportLayout())
		return holder, nil
	}

	layout, err := decodeLayout(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(layout)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeLayout(v)
		if err != nil {
			log.Warn("report layout reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("report layout reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticLayoutHolder returns a holder that never reloads.
func NewStaticLayoutHolder(layout ReportLayout) *LayoutHolder {
	holder := &LayoutHolder{}
	holder.current.Store(layout)
	return holder
}

func (h *LayoutHolder) Get() ReportLayout {
	if h == nil {
		return DefaultReportLayout()
	}
	return h.current.Load().(ReportLayout)
}

// decodeLayout overlays the file on top of the defaults so a partial file
// only overrides the keys it names.
func decodeLayout(v *viper.Viper) (ReportLayout, error) {
	layout := DefaultReportLayout()
	if err := v.UnmarshalKey("layout", &layout); err != nil {
		return ReportLayout{}, err
	}
	if err := validateLayout(layout); err != nil {
		return ReportLayout{}, err
	}
	return layout, nil
}

func validateLayout(layout ReportLayout) error {
	if strings.TrimSpace(layout.Cover.Title) == "" {
		return errors.New("layout.cover_page.title cannot be empty")
	}
	if len(layout.KPISummary.Columns) != 2 {
		return errors.New("layout.kpi_summary.columns must have two entries")
	}
	for _, section := range layout.Narrative.Sections {
		if strings.TrimSpace(section.Key) == "" {
			return errors.New("layout.narrative.sections entries need a key")
		}
	}
	return nil
}
