package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile         string
	SessionFile        string
	ReportName         string
	ReportType         []string
	Dir                string
	Trend              bool
	VariationThreshold float64
	LowUsageThreshold  float64
	TopServices        int
	BaselineMode       string
}

// MergeConfig preenche os campos não informados na linha de comando com os
// valores do arquivo de configuração e, por fim, com os padrões.
// set informa quais flags foram passadas explicitamente.
func (a *CLIArgs) MergeConfig(cfg *Config, set func(flag string) bool) {
	var file Config
	if cfg != nil {
		file = *cfg
	}
	merged := file.WithDefaults()
	isSet := func(flag string) bool { return set != nil && set(flag) }

	if !isSet("session-file") || a.SessionFile == "" {
		a.SessionFile = merged.SessionFile
	}
	if !isSet("report-name") {
		a.ReportName = merged.ReportName
	}
	if !isSet("report-type") {
		a.ReportType = merged.ReportType
	}
	if !isSet("dir") {
		a.Dir = merged.Dir
	}
	if !isSet("variation-threshold") {
		a.VariationThreshold = merged.VariationThreshold
	}
	if !isSet("low-usage-threshold") {
		a.LowUsageThreshold = merged.LowUsageThreshold
	}
	if !isSet("top") {
		a.TopServices = merged.TopServices
	}
	if !isSet("baseline") {
		a.BaselineMode = merged.BaselineMode
	}
}
