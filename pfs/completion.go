package main

import (
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	portfolioFiles = predict.Files("*.jsonl*")
	fields         = predict.Set{"currency", "market", "sector", "exchange", "name", "ticker"}
)

// completion describes the pfs command line for shell completion.
//
// Install it with COMP_INSTALL=1 pfs, remove it with COMP_UNINSTALL=1 pfs.
func completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	var periods predict.Set
	for _, p := range date.Periods {
		periods = append(periods, p.String())
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"portfolio-file": portfolioFiles,
			"sqlite-db":      predict.Files("*.db"),
			"name":           predict.Something,
			"provider":       predict.Set{"eodhd", "yahoo", "file"},
			"market-file":    predict.Files("*.jsonl"),
			"eodhd-api-key":  predict.Something,
			"cache":          predict.Nothing,
			"v":              predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"new": {
				Flags: map[string]complete.Predictor{
					"horizon":    predict.Something,
					"weights":    predict.Something,
					"baseline":   predict.Something,
					"duplicates": predict.Set{"reject", "ignore"},
					"force":      predict.Nothing,
				},
				Args: predict.Something,
			},
			"add": {
				Flags: map[string]complete.Predictor{"weights": predict.Something},
				Args:  predict.Something,
			},
			"remove":  {Args: predict.Something},
			"weight":  {Args: predict.Something},
			"horizon": {Args: predict.Something},
			"list":    {Flags: map[string]complete.Predictor{"l": predict.Nothing}},
			"delete":  {Args: predict.Something},
			"show": {
				Flags: map[string]complete.Predictor{"period": periods},
				Args:  predict.Set{"summary", "prices", "worth"},
			},
			"split":  {Args: fields},
			"cagr":   {},
			"search": {Args: predict.Something},
			"export": {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}},
			"topic":  {Args: predict.Set(topics)},
			"help":   {},
		},
	}
}
