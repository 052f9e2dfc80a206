package report

import (
	"html/template"
	"strings"

	"github.com/qdm12/dns-inventory/internal/models"
)

//nolint:lll
const htmlTemplateString = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>DNS asset inventory</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
th { background-color: #f0f0f0; }
.removed { color: #999; text-decoration: line-through; }
.unreachable { color: #c00; font-weight: bold; }
</style>
</head>
<body>
<h1>DNS asset inventory</h1>
<p>Generated on {{ .GeneratedAt.Format "2006-01-02 15:04:05 MST" }}</p>
<ul>
<li>Domains: {{ len .Domains }}</li>
<li>Active records: {{ .ActiveAssets }}</li>
<li>Removed records: {{ .RemovedAssets }}</li>
{{- range .Providers }}
<li>Provider {{ .Name }}: {{ if .Reachable }}reachable{{ else }}<span class="unreachable">unreachable</span>{{ end }}</li>
{{- end }}
</ul>
<h2>Domains</h2>
<table>
<tr><th>Domain</th><th>Status</th><th>Source</th><th>First seen</th></tr>
{{- range .Domains }}
<tr><td>{{ .Name }}</td><td>{{ .Status }}</td><td>{{ .Source }}</td><td>{{ .DiscoveryDate }}</td></tr>
{{- end }}
</table>
<h2>DNS records</h2>
<table>
<tr><th>Name</th><th>Type</th><th>Value</th><th>Source</th><th>Status</th><th>First seen</th></tr>
{{- range .Assets }}
<tr{{ if .Removed }} class="removed"{{ end }}><td>{{ .Name }}</td><td>{{ .RecordType }}</td><td>{{ .Value }}</td><td>{{ .Source }}</td><td>{{ .Status }}</td><td>{{ .DiscoveryDate }}</td></tr>
{{- end }}
</table>
{{- if .NoDataDomains }}
<h2>Domains without records</h2>
<ul>
{{- range .NoDataDomains }}
<li>{{ . }}</li>
{{- end }}
</ul>
{{- end }}
</body>
</html>
`

//nolint:gochecknoglobals
var htmlTemplate = template.Must(
	template.New("report").Parse(htmlTemplateString))

type htmlData struct {
	GeneratedAt   interface{ Format(layout string) string }
	Domains       []htmlDomain
	Assets        []htmlAsset
	ActiveAssets  int
	RemovedAssets int
	Providers     []providerState
	NoDataDomains []string
}

type htmlDomain struct {
	Name          string
	Status        string
	Source        string
	DiscoveryDate string
}

type htmlAsset struct {
	Name          string
	RecordType    string
	Value         string
	Source        string
	Status        string
	Removed       bool
	DiscoveryDate string
}

func renderHTML(data Data) (html string, err error) {
	templateData := htmlData{
		GeneratedAt:   data.GeneratedAt,
		ActiveAssets:  data.activeAssetsCount(),
		RemovedAssets: data.removedAssetsCount(),
		Providers:     data.providerStates(),
		NoDataDomains: data.NoDataDomains,
	}

	templateData.Domains = make([]htmlDomain, len(data.Domains))
	for i, domain := range data.Domains {
		templateData.Domains[i] = htmlDomain{
			Name:          domain.Name,
			Status:        string(domain.Status),
			Source:        string(domain.Source),
			DiscoveryDate: domain.DiscoveryDate,
		}
	}

	templateData.Assets = make([]htmlAsset, len(data.Assets))
	for i, asset := range data.Assets {
		templateData.Assets[i] = htmlAsset{
			Name:          asset.BuildDomainName(),
			RecordType:    asset.RecordType,
			Value:         asset.Value,
			Source:        string(asset.Source),
			Status:        string(asset.Status),
			Removed:       asset.Status == models.AssetStatusRemoved,
			DiscoveryDate: asset.DiscoveryDate,
		}
	}

	builder := new(strings.Builder)
	err = htmlTemplate.Execute(builder, templateData)
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}
