package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/mod/semver"
)

// ReleasesURL aponta para a última release publicada do projeto.
var ReleasesURL = "https://api.github.com/repos/diillson/aws-cost-analyzer-go/releases/latest"

const installCommand = "go install github.com/diillson/aws-cost-analyzer-go/cmd/aws-cost-analyzer@latest"

// LatestRelease busca a tag da última release, sem o prefixo "v".
func LatestRelease(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decoding release: %w", err)
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// IsNewer compara latest e current como semver ("0.10.0" > "0.9.0").
// Versões inválidas nunca são consideradas mais novas.
func IsNewer(latest, current string) bool {
	l, c := "v"+strings.TrimPrefix(latest, "v"), "v"+strings.TrimPrefix(current, "v")
	if !semver.IsValid(l) || !semver.IsValid(c) {
		return false
	}
	return semver.Compare(l, c) > 0
}

// CheckLatestVersion avisa no console quando existe uma release mais nova.
// Builds de desenvolvimento e falhas de rede são ignorados.
func CheckLatestVersion(currentVersion string) {
	if IsDevelopment(currentVersion) {
		return
	}

	client := &http.Client{Timeout: 3 * time.Second}
	latest, err := LatestRelease(client, ReleasesURL)
	if err != nil || !IsNewer(latest, currentVersion) {
		return
	}
	pterm.Warning.Println(fmt.Sprintf("A new version of AWS Cost Analyzer is available: %s", latest))
	pterm.Info.Println("Please update using: " + installCommand)
}
