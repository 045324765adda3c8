package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/land-resolver/app/config"
	"github.com/land-resolver/internal/community"
	"github.com/land-resolver/internal/geocode"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
	"github.com/land-resolver/internal/resolver"
	"github.com/land-resolver/internal/store"
)

func openResolver() (*store.Store, *resolver.Resolver, error) {
	st, err := store.Open(config.C.Database.Path, logger)
	if err != nil {
		return nil, nil, err
	}
	norm := normalizer.NewNormalizer()
	p := parser.NewParser(norm)
	disamb := parser.NewDisambiguator(st, logger)
	return st, resolver.New(st, p, norm, disamb, logger), nil
}

func newSearchCmd() *cobra.Command {
	var (
		limit      int
		exhaustive bool
	)
	cmd := &cobra.Command{
		Use:   "search <address>",
		Short: "Resolve an address query against the transaction database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, r, err := openResolver()
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := r.Resolve(context.Background(), args[0], resolver.Options{
				Limit:      limit,
				Exhaustive: exhaustive,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for i, res := range results {
				price := "-"
				if res.Record.TotalPrice != nil {
					price = fmt.Sprintf("%.0f萬", float64(*res.Record.TotalPrice)/10000)
				}
				fmt.Printf("%3d. [%s %d] %s  %s  %s\n",
					i+1, res.MatchLevel, res.Confidence,
					res.Record.Address, res.Record.TransactionDate, price)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results")
	cmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "collect every tier instead of stopping at the first hit")
	return cmd
}

func newCommunityCmd() *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "community <keyword>",
		Short: "Fuzzy-search building project names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(config.C.Database.Path, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			matcher := community.NewMatcher(st, logger)
			if err := matcher.Refresh(context.Background()); err != nil {
				return err
			}

			keyword := strings.Join(args, " ")
			results := matcher.Search(keyword, topN)
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for i, r := range results {
				fmt.Printf("%3d. [%s] %s  (%d筆, 均%.0f萬) [%s] score=%.1f\n",
					i+1, r.MatchType, r.Name, r.TxCount, r.AvgPrice/10000, r.District, r.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topN, "top", 20, "maximum results")
	return cmd
}

func newResolveCommunityCmd() *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "resolve-community <address>",
		Short: "Find the building projects registered at an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, r, err := openResolver()
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := r.ResolveCommunity(context.Background(), args[0], topN)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for i, res := range results {
				fmt.Printf("%3d. [%s %d] %s  (%d筆) [%s]\n",
					i+1, res.MatchLevel, res.Confidence, res.Community, res.Count, res.District)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topN, "top", 5, "maximum results")
	return cmd
}

func newGeocodeCmd() *cobra.Command {
	var district string
	cmd := &cobra.Command{
		Use:   "geocode <address>",
		Short: "Resolve an address to coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			norm := normalizer.NewNormalizer()
			p := parser.NewParser(norm)
			client := geocode.NewClient(config.C.Geocode.URL, config.GeocodeTimeout(), nil, norm, p, logger)

			result, err := client.Geocode(context.Background(), args[0], district)
			if err != nil {
				return err
			}
			fmt.Printf("%.6f,%.6f (%s)\n", result.Lat, result.Lng, result.Precision)
			return nil
		},
	}
	cmd.Flags().StringVar(&district, "district", "", "district hint when the address omits it")
	return cmd
}
