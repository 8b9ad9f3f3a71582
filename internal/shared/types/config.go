package types

// Valores padrão aplicados quando nem a flag nem o arquivo de configuração definem o campo.
const (
	DefaultSessionFile        = ".aws-cost-analyzer.db"
	DefaultVariationThreshold = 5.0
	DefaultLowUsageThreshold  = 10.0
	DefaultTopServices        = 5
	DefaultBaselineMode       = "first-month"
)

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	SessionFile        string   `json:"session_file" yaml:"session_file" toml:"session_file"`
	ReportName         string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType         []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir                string   `json:"dir" yaml:"dir" toml:"dir"`
	VariationThreshold float64  `json:"variation_threshold" yaml:"variation_threshold" toml:"variation_threshold"`
	LowUsageThreshold  float64  `json:"low_usage_threshold" yaml:"low_usage_threshold" toml:"low_usage_threshold"`
	TopServices        int      `json:"top_services" yaml:"top_services" toml:"top_services"`
	BaselineMode       string   `json:"baseline_mode" yaml:"baseline_mode" toml:"baseline_mode"`
}

// WithDefaults devolve uma cópia com os campos vazios preenchidos pelos padrões.
// Zero em campos numéricos conta como "não definido".
func (c Config) WithDefaults() Config {
	if c.SessionFile == "" {
		c.SessionFile = DefaultSessionFile
	}
	if len(c.ReportType) == 0 {
		c.ReportType = []string{"csv"}
	}
	if c.VariationThreshold <= 0 {
		c.VariationThreshold = DefaultVariationThreshold
	}
	if c.LowUsageThreshold <= 0 {
		c.LowUsageThreshold = DefaultLowUsageThreshold
	}
	if c.TopServices <= 0 {
		c.TopServices = DefaultTopServices
	}
	if c.BaselineMode == "" {
		c.BaselineMode = DefaultBaselineMode
	}
	return c
}
