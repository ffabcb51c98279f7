// Package cost produces rough monthly cost estimates for the resources a
// configuration would provision. Prices are US East (N. Virginia) list
// prices as of 2024 and exclude data transfer.
package cost

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lakedeploy/lakedeploy/internal/config"
)

// List prices in USD, us-east-1.
const (
	priceS3StorageGB       = 0.023  // per GB-month
	priceS3PutPer1K        = 0.005  // per 1000 PUT requests
	priceS3GetPer1K        = 0.0004 // per 1000 GET requests
	priceCrawlerDPUHour    = 0.44   // per DPU-hour
	priceCatalogPer100K    = 1.00   // per 100k catalog objects per month
	priceAthenaTBScanned   = 5.00   // per TB scanned
	priceFirehoseGB        = 0.029  // per GB ingested
	priceKMSPer10K         = 0.03   // per 10k requests
	priceVPCEndpointHour   = 0.01   // per interface endpoint hour
	priceVPCEndpointDataGB = 0.01   // per GB processed
)

// hoursPerMonth is the averaged month length used for hourly prices.
const hoursPerMonth = 730

// Usage parameterizes an estimate.
type Usage struct {
	StorageGB        float64
	MonthlyQueries   int
	AvgQueryScanGB   float64
	FirehoseGBPerDay float64
}

// DefaultUsage is the baseline used when the caller gives no numbers.
func DefaultUsage() Usage {
	return Usage{
		StorageGB:        100,
		MonthlyQueries:   100,
		AvgQueryScanGB:   10,
		FirehoseGBPerDay: 1,
	}
}

// LineItem is one service's share of the monthly estimate.
type LineItem struct {
	Service string
	Monthly float64
}

// Assumption records what a line item was computed from.
type Assumption struct {
	Service string
	Detail  string
}

// Estimate is a monthly cost estimate with its breakdown and the
// assumptions behind it.
type Estimate struct {
	Monthly     float64
	Currency    string
	Breakdown   []LineItem
	Assumptions []Assumption
}

// ForConfig estimates the monthly cost of the resources cfg would
// provision under the given usage. Only configured resources contribute.
func ForConfig(cfg *config.Config, usage Usage) Estimate {
	est := Estimate{Currency: "USD"}
	add := func(service string, monthly float64, detail string) {
		est.Breakdown = append(est.Breakdown, LineItem{Service: service, Monthly: monthly})
		est.Assumptions = append(est.Assumptions, Assumption{Service: service, Detail: detail})
		est.Monthly += monthly
	}

	add("S3 Storage",
		usage.StorageGB*priceS3StorageGB,
		fmt.Sprintf("%s GB stored", formatCount(usage.StorageGB)),
	)

	// Request volume scales with stored data: 10 PUTs and 100 GETs per GB
	// per month.
	putRequests := usage.StorageGB * 10
	getRequests := usage.StorageGB * 100
	add("S3 Requests",
		putRequests/1000*priceS3PutPer1K+getRequests/1000*priceS3GetPer1K,
		fmt.Sprintf("%s PUT, %s GET per month", formatCount(putRequests), formatCount(getRequests)),
	)

	// Roughly 1000 catalog objects per 100 GB, floor of 1000.
	catalogObjects := usage.StorageGB / 100 * 1000
	if catalogObjects < 1000 {
		catalogObjects = 1000
	}
	add("Glue Data Catalog",
		catalogObjects/100000*priceCatalogPer100K,
		fmt.Sprintf("%s objects stored", formatCount(catalogObjects)),
	)

	if cfg.Crawler != nil {
		// Daily runs of 10 minutes on 2 DPUs.
		crawlerDPUHours := 10.0 / 60 * 30 * 2
		add("Glue Crawler",
			crawlerDPUHours*priceCrawlerDPUHour,
			"daily runs, 10 min each, 2 DPUs",
		)
	}

	if cfg.AthenaWorkgroup != "" {
		scanTB := float64(usage.MonthlyQueries) * usage.AvgQueryScanGB / 1000
		add("Athena Queries",
			scanTB*priceAthenaTBScanned,
			fmt.Sprintf("%d queries, %g GB avg scan", usage.MonthlyQueries, usage.AvgQueryScanGB),
		)
	}

	if cfg.Firehose != nil {
		add("Kinesis Firehose",
			usage.FirehoseGBPerDay*30*priceFirehoseGB,
			fmt.Sprintf("%g GB/day ingestion", usage.FirehoseGBPerDay),
		)
	}

	if cfg.KMSKeyID != "" {
		// Around 10k encryption requests per GB stored.
		kmsRequests := usage.StorageGB * 10000
		add("KMS Encryption",
			kmsRequests/10000*priceKMSPer10K,
			fmt.Sprintf("%s requests per month", formatCount(kmsRequests)),
		)
	}

	if cfg.VPCEndpoints != nil {
		endpoints := 0
		for _, enabled := range []bool{cfg.VPCEndpoints.EnableS3, cfg.VPCEndpoints.EnableGlue, cfg.VPCEndpoints.EnableAthena} {
			if enabled {
				endpoints++
			}
		}
		if endpoints > 0 {
			// Assume a tenth of the stored data moves through the endpoints.
			dataGB := usage.StorageGB * 0.1
			add("VPC Endpoints",
				float64(endpoints)*hoursPerMonth*priceVPCEndpointHour+dataGB*priceVPCEndpointDataGB,
				fmt.Sprintf("%d endpoints, %s GB processed", endpoints, formatCount(dataGB)),
			)
		}
	}

	return est
}

// Scenario pairs a usage profile name with its estimate.
type Scenario struct {
	Name     string
	Estimate Estimate
}

// Scenarios estimates three canned usage profiles for cfg.
func Scenarios(cfg *config.Config) []Scenario {
	return []Scenario{
		{
			Name: "Light Usage (Dev/Test)",
			Estimate: ForConfig(cfg, Usage{
				StorageGB: 50, MonthlyQueries: 50, AvgQueryScanGB: 5, FirehoseGBPerDay: 0.5,
			}),
		},
		{
			Name: "Medium Usage (Small Production)",
			Estimate: ForConfig(cfg, Usage{
				StorageGB: 500, MonthlyQueries: 500, AvgQueryScanGB: 20, FirehoseGBPerDay: 5,
			}),
		},
		{
			Name: "Heavy Usage (Large Production)",
			Estimate: ForConfig(cfg, Usage{
				StorageGB: 5000, MonthlyQueries: 2000, AvgQueryScanGB: 50, FirehoseGBPerDay: 50,
			}),
		},
	}
}

// FormatSummary renders the estimate for terminal output, largest line
// items first.
func (e Estimate) FormatSummary() string {
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", rule)
	b.WriteString("ESTIMATED MONTHLY COST\n")
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "\nTotal: $%.2f %s/month\n\n", e.Monthly, e.Currency)
	b.WriteString("Breakdown:\n")

	items := make([]LineItem, len(e.Breakdown))
	copy(items, e.Breakdown)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Monthly > items[j].Monthly })
	for _, item := range items {
		fmt.Fprintf(&b, "  %s $%8.2f\n", padDots(item.Service, 40), item.Monthly)
	}

	fmt.Fprintf(&b, "\n%s\n", rule)
	b.WriteString("ASSUMPTIONS:\n")
	for _, a := range e.Assumptions {
		fmt.Fprintf(&b, "  - %s: %s\n", a.Service, a.Detail)
	}

	fmt.Fprintf(&b, "\n%s\n", rule)
	b.WriteString("NOTE: These are estimates based on AWS pricing as of 2024.\n")
	b.WriteString("Actual costs may vary based on usage patterns and AWS pricing changes.\n")
	b.WriteString("This does not include data transfer costs or optional services.\n")
	fmt.Fprintf(&b, "%s\n", rule)

	return b.String()
}

func padDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(".", width-len(s))
}

// formatCount renders a whole number with thousands separators.
func formatCount(n float64) string {
	s := strconv.FormatFloat(n, 'f', 0, 64)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
