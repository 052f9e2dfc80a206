// Package report renders the inventory to human readable files in
// the data directory, as Markdown and as a standalone HTML page.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qdm12/dns-inventory/internal/models"
)

const (
	MarkdownFileName = "report.md"
	HTMLFileName     = "report.html"
)

// Data is the inventory view rendered by both report formats.
type Data struct {
	GeneratedAt   time.Time
	Domains       []models.Domain
	Assets        []models.Asset
	NoDataDomains []string
	Reachable     map[models.Source]bool
}

func (d Data) activeAssetsCount() (count int) {
	for _, asset := range d.Assets {
		if asset.Status == models.AssetStatusActive {
			count++
		}
	}
	return count
}

func (d Data) removedAssetsCount() int {
	return len(d.Assets) - d.activeAssetsCount()
}

func (d Data) providerStates() (states []providerState) {
	for _, source := range []models.Source{
		models.SourceGoDaddy, models.SourceCloudflare} {
		reachable, configured := d.Reachable[source]
		if !configured {
			continue
		}
		states = append(states, providerState{
			Name:      string(source),
			Reachable: reachable,
		})
	}
	return states
}

type providerState struct {
	Name      string
	Reachable bool
}

// Write renders both report files into dataDir.
func Write(dataDir string, data Data) (err error) {
	markdown := renderMarkdown(data)
	err = os.WriteFile(filepath.Join(dataDir, MarkdownFileName),
		[]byte(markdown), 0o644)
	if err != nil {
		return fmt.Errorf("writing markdown report: %w", err)
	}

	html, err := renderHTML(data)
	if err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	err = os.WriteFile(filepath.Join(dataDir, HTMLFileName),
		[]byte(html), 0o644)
	if err != nil {
		return fmt.Errorf("writing html report: %w", err)
	}
	return nil
}

func renderMarkdown(data Data) (markdown string) {
	builder := new(strings.Builder)

	builder.WriteString("# DNS asset inventory\n\n")
	fmt.Fprintf(builder, "Generated on %s\n\n",
		data.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(builder, "- Domains: %d\n", len(data.Domains))
	fmt.Fprintf(builder, "- Active records: %d\n", data.activeAssetsCount())
	fmt.Fprintf(builder, "- Removed records: %d\n", data.removedAssetsCount())
	for _, state := range data.providerStates() {
		reachability := "reachable"
		if !state.Reachable {
			reachability = "UNREACHABLE"
		}
		fmt.Fprintf(builder, "- Provider %s: %s\n", state.Name, reachability)
	}

	builder.WriteString("\n## Domains\n\n")
	builder.WriteString("| Domain | Status | Source | First seen |\n")
	builder.WriteString("| --- | --- | --- | --- |\n")
	for _, domain := range data.Domains {
		fmt.Fprintf(builder, "| %s | %s | %s | %s |\n",
			domain.Name, domain.Status, domain.Source, domain.DiscoveryDate)
	}

	builder.WriteString("\n## DNS records\n\n")
	builder.WriteString("| Name | Type | Value | Source | Status | First seen |\n")
	builder.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, asset := range data.Assets {
		fmt.Fprintf(builder, "| %s | %s | %s | %s | %s | %s |\n",
			asset.BuildDomainName(), asset.RecordType,
			escapeMarkdownCell(asset.Value),
			asset.Source, asset.Status, asset.DiscoveryDate)
	}

	if len(data.NoDataDomains) > 0 {
		builder.WriteString("\n## Domains without records\n\n")
		for _, domain := range data.NoDataDomains {
			fmt.Fprintf(builder, "- %s\n", domain)
		}
	}

	return builder.String()
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
