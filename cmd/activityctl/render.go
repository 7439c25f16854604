package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rpggio/newsdesk/internal/domain/activity"
)

const barWidth = 40

func render(w io.Writer, v activity.View, all bool) error {
	switch v.Mode {
	case activity.ViewAnalytics:
		return renderAnalytics(w, v.Stats)
	case activity.ViewDetailed:
		return renderDetailed(w, v)
	default:
		return renderTimeline(w, v, all)
	}
}

func renderTimeline(w io.Writer, v activity.View, all bool) error {
	if len(v.Items) == 0 {
		_, err := fmt.Fprintln(w, "No activity found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "WHEN\tTYPE\tDESCRIPTION"
	if all {
		header += "\tUSER"
	}
	fmt.Fprintln(tw, header)
	for _, item := range v.Items {
		line := fmt.Sprintf("%s\t%s\t%s", item.RelativeTime, item.Presentation.Label, item.Record.Description)
		if all {
			line += "\t" + item.ActorDisplay
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return renderFooter(w, v)
}

func renderDetailed(w io.Writer, v activity.View) error {
	if len(v.Items) == 0 {
		_, err := fmt.Fprintln(w, "No activity found.")
		return err
	}
	for i, item := range v.Items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		rec := item.Record
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\t%s\n", rec.ID)
		fmt.Fprintf(tw, "Type\t%s (%s)\n", item.Presentation.Label, rec.Type)
		fmt.Fprintf(tw, "When\t%s (%s)\n", item.RelativeTime, rec.Timestamp.Format("2006-01-02 15:04:05 MST"))
		if item.ActorDisplay != "" {
			fmt.Fprintf(tw, "User\t%s\n", item.ActorDisplay)
		}
		fmt.Fprintf(tw, "Description\t%s\n", rec.Description)
		if rec.Details != "" {
			fmt.Fprintf(tw, "Details\t%s\n", rec.Details)
		}
		fmt.Fprintf(tw, "Client\t%s / %s / %s\n", rec.Browser, rec.OS, rec.Platform)
		fmt.Fprintf(tw, "Network\t%s (%s, %s)\n", rec.Network.IPAddress, rec.Network.City, rec.Network.Country)
		if len(rec.Metadata) > 0 {
			keys := make([]string, 0, len(rec.Metadata))
			for k := range rec.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(tw, "  %s\t%v\n", k, rec.Metadata[k])
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	return renderFooter(w, v)
}

func renderAnalytics(w io.Writer, s activity.Snapshot) error {
	fmt.Fprintf(w, "Last %d days: %d total, %d likes, %d comments, %d posts, %d logins\n\n",
		s.Period, s.Summary.Total, s.Summary.Likes, s.Summary.Comments, s.Summary.Posts, s.Summary.Logins)

	peak := 0
	for _, d := range s.Breakdown.Daily {
		peak = max(peak, d.Count)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range s.Breakdown.Daily {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Date, d.Count, bar(d.Count, peak))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sections := []struct {
		title  string
		counts []activity.DimensionCount
	}{
		{"By type", s.Breakdown.ByType},
		{"By browser", s.Breakdown.ByBrowser},
		{"By OS", s.Breakdown.ByOS},
	}
	for _, sec := range sections {
		if len(sec.counts) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", sec.title)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, c := range sec.counts {
			fmt.Fprintf(tw, "  %s\t%d\n", c.Value, c.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func renderTypes(w io.Writer, infos []activity.TypeInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLABEL\tICON")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Type, info.Label, info.Icon)
	}
	return tw.Flush()
}

func renderFooter(w io.Writer, v activity.View) error {
	_, err := fmt.Fprintf(w, "page %d/%d, %d matched\n", v.Page, max(v.TotalPages, 1), v.MatchedTotal)
	return err
}

func bar(n, peak int) string {
	if peak == 0 || n == 0 {
		return ""
	}
	return strings.Repeat("#", max(1, n*barWidth/peak))
}
