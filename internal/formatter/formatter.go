// package formatter renders tracks and action history for CLI output (plain text, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"spotlike/internal/repositories"
	"spotlike/internal/services"
	"spotlike/internal/verify"
)

// FormatTrack renders a track as "Name - Artist" with optional album suffix.
func FormatTrack(track *services.Track) string {
	if track == nil {
		return "No track playing"
	}
	line := fmt.Sprintf("%s - %s", track.Name, track.Artist)
	if track.Album != "" {
		line = fmt.Sprintf("%s (%s)", line, track.Album)
	}
	return line
}

// FormatOutcome renders a verification outcome for notification display.
func FormatOutcome(outcome verify.Outcome) string {
	if outcome.Converged {
		if outcome.Attempts == 0 {
			return "verified immediately"
		}
		return fmt.Sprintf("verified in %s after %d attempts",
			outcome.Elapsed.Round(time.Millisecond), outcome.Attempts)
	}
	return fmt.Sprintf("not verified after %d attempts (%s) - the change may still be pending",
		outcome.Attempts, outcome.Elapsed.Round(time.Millisecond))
}

// HistoryToText converts history entries to an aligned plain-text listing.
func HistoryToText(entries []repositories.HistoryEntry) []byte {
	var buf bytes.Buffer

	if len(entries) == 0 {
		buf.WriteString("No recorded actions.\n")
		return buf.Bytes()
	}

	for i, entry := range entries {
		status := "✓"
		if !entry.Converged {
			status = "✗"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %-6s %s - %s\n",
			i+1, status, entry.Action, entry.TrackName, entry.Artist))
		buf.WriteString(fmt.Sprintf("   %s · %d attempts · %s\n",
			entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			entry.Attempts, entry.Elapsed.Round(time.Millisecond)))
	}

	return buf.Bytes()
}

// HistoryToCSV converts history entries to CSV with columns:
// CreatedAt, Action, TrackID, Track, Artist, Converged, Attempts, ElapsedMS
func HistoryToCSV(entries []repositories.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"CreatedAt", "Action", "TrackID", "Track", "Artist", "Converged", "Attempts", "ElapsedMS"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.Action,
			entry.TrackID,
			entry.TrackName,
			entry.Artist,
			strconv.FormatBool(entry.Converged),
			strconv.Itoa(entry.Attempts),
			strconv.FormatInt(entry.Elapsed.Milliseconds(), 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
