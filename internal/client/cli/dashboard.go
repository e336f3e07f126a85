package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/marketpulse/internal/client/api"
	"github.com/dmitrijs2005/marketpulse/internal/client/models"
)

// Profile fetches and prints the business profile.
func (a *App) Profile(ctx context.Context) error {
	profile, err := a.dashboard.Profile(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	if profile == nil {
		printlnFn("No business profile yet. Use 'editprofile' to create one.")
		return nil
	}

	printlnFn("Company:", profile.CompanyName)
	printlnFn("Industry:", profile.Industry)
	printlnFn("Company size:", profile.CompanySize)
	printlnFn("Target market:", profile.TargetMarket)
	printlnFn(fmt.Sprintf("Monthly revenue: %.2f", profile.MonthlyRevenue))
	if profile.Website != nil {
		printlnFn("Website:", profile.Website.URL)
	}
	for _, loc := range profile.PreferredLocations {
		printlnFn(fmt.Sprintf("Location: %s, %s (%s)", loc.City, loc.Country, loc.Priority))
	}
	return nil
}

// EditProfile prompts for the core profile fields and saves them. Company
// name and industry are required; the rest may be left blank.
func (a *App) EditProfile(ctx context.Context) error {
	profile := models.BusinessProfile{}

	var err error
	if profile.CompanyName, err = getSimpleText(a.reader, "Company name", os.Stdout); err != nil {
		return err
	}
	if profile.Industry, err = getSimpleText(a.reader, "Industry", os.Stdout); err != nil {
		return err
	}
	if profile.CompanySize, err = getSimpleText(a.reader, "Company size (e.g. 1-10, 11-50)", os.Stdout); err != nil {
		return err
	}
	if profile.TargetMarket, err = getSimpleText(a.reader, "Target market", os.Stdout); err != nil {
		return err
	}

	revenue, err := getSimpleText(a.reader, "Monthly revenue (blank to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if revenue != "" {
		profile.MonthlyRevenue, err = strconv.ParseFloat(revenue, 64)
		if err != nil {
			printlnFn("Monthly revenue must be a number.")
			return err
		}
	}

	if err := a.dashboard.SaveProfile(ctx, profile); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Profile saved.")
	return nil
}

// Segments lists the customer segments.
func (a *App) Segments(ctx context.Context) error {
	segments, err := a.dashboard.Segments(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, s := range segments {
		printlnFn(fmt.Sprintf("[%d] %s: %d customers, %.1f%% growth", s.ID, s.Name, s.Size, s.Growth))
		if len(s.Characteristics) > 0 {
			printlnFn("    " + strings.Join(s.Characteristics, ", "))
		}
	}
	return nil
}

// Behaviors prompts for an optional date range and prints behavior counts.
func (a *App) Behaviors(ctx context.Context) error {
	filter := api.BehaviorFilter{}

	var err error
	if filter.StartDate, err = getSimpleText(a.reader, "Start date YYYY-MM-DD (blank for all)", os.Stdout); err != nil {
		return err
	}
	if filter.EndDate, err = getSimpleText(a.reader, "End date YYYY-MM-DD (blank for all)", os.Stdout); err != nil {
		return err
	}

	behaviors, err := a.dashboard.Behaviors(ctx, filter)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, b := range behaviors {
		printlnFn(fmt.Sprintf("%s: %d", b.Type, b.Count))
	}
	return nil
}

// Metrics prints the customer metrics summary and trends.
func (a *App) Metrics(ctx context.Context) error {
	metrics, err := a.dashboard.Metrics(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn("Total customers:", metrics.Summary.TotalCustomers)
	printlnFn("Active customers:", metrics.Summary.ActiveCustomers)
	printlnFn(fmt.Sprintf("Churn rate: %.1f%%", metrics.Summary.ChurnRate))
	printlnFn(fmt.Sprintf("Average lifetime value: %.2f", metrics.Summary.AverageLifetimeValue))
	printlnFn(fmt.Sprintf("Growth: %.1f%%, retention: %.1f%%, satisfaction: %.1f%%",
		metrics.Trends.GrowthRate, metrics.Trends.RetentionRate, metrics.Trends.SatisfactionRate))
	return nil
}

// Growth prints the growth metrics against their targets, then the tracked
// strategy items.
func (a *App) Growth(ctx context.Context) error {
	strategy, err := a.dashboard.GrowthStrategy(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, m := range strategy.Metrics {
		printlnFn(fmt.Sprintf("%s: %.0f of %.0f", m.Name, m.Current, m.Target))
	}
	for _, s := range strategy.Strategies {
		printlnFn(fmt.Sprintf("[%s] %s (%d%%, %s)", s.ID, s.Title, s.Progress, s.Status))
		if s.Description != "" {
			printlnFn("    " + s.Description)
		}
	}
	return nil
}

// Trends prints the market trends, optionally narrowed to one industry.
func (a *App) Trends(ctx context.Context) error {
	industry, err := getSimpleText(a.reader, "Industry (blank for all)", os.Stdout)
	if err != nil {
		return err
	}

	trends, err := a.dashboard.MarketTrends(ctx, industry)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, t := range trends {
		printlnFn(fmt.Sprintf("%s: %d mentions, sentiment %.2f", t.Topic, t.Mentions, t.Sentiment))
	}
	return nil
}

// MarketSize prints the market size estimate for an industry.
func (a *App) MarketSize(ctx context.Context) error {
	industry, err := getSimpleText(a.reader, "Industry", os.Stdout)
	if err != nil {
		return err
	}

	size, err := a.dashboard.MarketSize(ctx, industry)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Current size: %.0f", size.CurrentSize))
	printlnFn(fmt.Sprintf("Predicted size: %.0f (%.1f%% growth)", size.PredictedSize, size.GrowthRate*100))
	return nil
}

// Competitors lists the tracked competitors, optionally narrowed to one industry.
func (a *App) Competitors(ctx context.Context) error {
	industry, err := getSimpleText(a.reader, "Industry (blank for all)", os.Stdout)
	if err != nil {
		return err
	}

	competitors, err := a.dashboard.Competitors(ctx, industry)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, c := range competitors {
		printlnFn(fmt.Sprintf("%s  %s", c.Name, c.URL))
	}
	return nil
}

// Engagement prints the engagement timeline, optionally narrowed to one segment.
func (a *App) Engagement(ctx context.Context) error {
	segmentID, err := getSimpleText(a.reader, "Segment id (blank for all)", os.Stdout)
	if err != nil {
		return err
	}

	points, err := a.dashboard.Engagement(ctx, segmentID)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, p := range points {
		printlnFn(fmt.Sprintf("%s  engagement %.1f  satisfaction %.1f  retention %.1f",
			p.Date, p.Engagement, p.Satisfaction, p.Retention))
	}
	return nil
}
