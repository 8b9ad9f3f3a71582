package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/aws-cost-analyzer-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
     ___        ______     ____          _        _                _
    / \ \      / / ___|   / ___|___  ___| |_     / \   _ __   __ _| |_   _ _______ _ __
   / _ \ \ /\ / /\___ \  | |   / _ \/ __| __|   / _ \ | '_ \ / _' | | | | |_  / _ \ '__|
  / ___ \ V  V /  ___) | | |__| (_) \__ \ |_   / ___ \| | | | (_| | | |_| |/ /  __/ |
 /_/   \_\_/\_/  |____/   \____\___/|___/\__| /_/   \_\_| |_|\__,_|_|\__, /___\___|_|
                                                                     |___/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	// Obtem a string formatada da versão através do pacote version
	fmt.Println(blue(fmt.Sprintf("AWS Cost Analyzer CLI (v%s)", version.FormatVersion())))
}

// checkLatestVersion verifica se uma versão mais recente está disponível.
func checkLatestVersion(currentVersion string) {
	version.CheckLatestVersion(currentVersion)
}
