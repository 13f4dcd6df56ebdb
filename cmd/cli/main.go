package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"goanova/adapters/excel"
	"goanova/app"
	"goanova/domain/anova"
	"goanova/internal/analysis/twoway"
	"goanova/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var (
		file    = flag.String("file", cfg.Data.File, "input .xlsx or .csv file")
		design  = flag.String("design", "one-way", "analysis design: one-way or two-way")
		postHoc = flag.String("posthoc", "", "comma-separated post-hoc methods: tukey_hsd,bonferroni,scheffe")
		alpha   = flag.Float64("alpha", cfg.Data.DefaultAlpha, "family-wise significance level")
		out     = flag.String("out", "", "optional .xlsx output path for result tables")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	methods, err := parseMethods(*postHoc)
	if err != nil {
		log.Fatalf("Invalid -posthoc: %v", err)
	}

	service := app.NewAnalysisService(nil)
	reader := excel.NewDataReader(*file)
	ctx := context.Background()

	switch *design {
	case "one-way":
		runOneWay(ctx, service, reader, methods, *alpha, *out)
	case "two-way":
		runTwoWay(ctx, service, reader, methods, *alpha, *out)
	default:
		log.Fatalf("Unknown design %q: expected one-way or two-way", *design)
	}
}

func runOneWay(ctx context.Context, service *app.AnalysisService, reader *excel.DataReader, methods []anova.Method, alpha float64, out string) {
	groups, names, err := reader.ReadGroups()
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	analysis, err := service.RunOneWay(ctx, app.OneWayRequest{
		Groups:  groups,
		Names:   names,
		PostHoc: methods,
		Alpha:   alpha,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Println(analysis.Result.Summary)
	for _, ph := range analysis.PostHoc {
		fmt.Println()
		fmt.Println(ph.Summary)
	}

	if out != "" {
		if err := excel.WriteWorkbook(out, analysis.Result.Table, analysis.PostHoc); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Wrote %s", out)
	}
}

func runTwoWay(ctx context.Context, service *app.AnalysisService, reader *excel.DataReader, methods []anova.Method, alpha float64, out string) {
	data, aLevels, bLevels, err := reader.ReadTwoWay()
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	analysis, err := service.RunTwoWay(ctx, app.TwoWayRequest{
		Data: data,
		Config: twoway.Config{
			ALevelNames: aLevels,
			BLevelNames: bLevels,
		},
		PostHoc: methods,
		Alpha:   alpha,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Println(analysis.Result.Summary)
	for _, ph := range append(analysis.PostHocByA, analysis.PostHocByB...) {
		fmt.Println()
		fmt.Println(ph.Summary)
	}

	if out != "" {
		followUps := append(analysis.PostHocByA, analysis.PostHocByB...)
		if err := excel.WriteWorkbook(out, analysis.Result.Table, followUps); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Wrote %s", out)
	}
}

func parseMethods(raw string) ([]anova.Method, error) {
	if raw == "" {
		return nil, nil
	}
	var methods []anova.Method
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		m, ok := anova.ParseMethod(s)
		if !ok {
			return nil, fmt.Errorf("unknown method %q", s)
		}
		methods = append(methods, m)
	}
	return methods, nil
}
