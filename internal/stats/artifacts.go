// Package stats writes finished runs to disk as JSON and CSV artifacts for
// plotting and offline analysis.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"colonies/internal/model"
)

const (
	runIndexFile       = "run_index.json"
	tournamentFile     = "tournament.json"
	standingsFile      = "standings.csv"
	summaryFile        = "strategy_summary.json"
	trajectoryFile     = "trajectory.csv"
	strategySeriesFile = "strategy_series.csv"
)

var ErrRunIDRequired = errors.New("run id is required")

type RunArtifacts struct {
	Tournament model.TournamentRecord
	// Trajectory is only present for population growth runs.
	Trajectory []model.TrajectoryPoint
}

type RunIndexEntry struct {
	RunID        string `json:"run_id"`
	Format       string `json:"format"`
	Seed         int64  `json:"seed"`
	Colonies     int    `json:"colonies"`
	Battles      int    `json:"battles"`
	WinnerID     string `json:"winner_id,omitempty"`
	CreatedAtUTC string `json:"created_at_utc"`
}

// WriteRunArtifacts writes one directory per run under baseDir and records
// the run in the base directory's index. It returns the run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	record := artifacts.Tournament
	if strings.TrimSpace(record.RunID) == "" {
		return "", ErrRunIDRequired
	}

	runDir := filepath.Join(baseDir, record.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, tournamentFile), record); err != nil {
		return "", err
	}
	if err := writeStandings(filepath.Join(runDir, standingsFile), record.Standings); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFile), SummarizeStrategies(record.Standings)); err != nil {
		return "", err
	}
	if len(artifacts.Trajectory) > 0 {
		if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), artifacts.Trajectory); err != nil {
			return "", err
		}
		series := StrategySeries(record.Standings, artifacts.Trajectory)
		if err := writeStrategySeries(filepath.Join(runDir, strategySeriesFile), series); err != nil {
			return "", err
		}
	}

	entry := RunIndexEntry{
		RunID:        record.RunID,
		Format:       record.Format,
		Seed:         record.Seed,
		Colonies:     len(record.Standings),
		Battles:      record.Battles,
		WinnerID:     record.WinnerID,
		CreatedAtUTC: record.CreatedAtUTC,
	}
	if err := AppendRunIndex(baseDir, entry); err != nil {
		return "", err
	}
	return runDir, nil
}

// AppendRunIndex adds entry to the index, replacing an entry with the same
// run id.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return ErrRunIDRequired
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}
	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}
	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns indexed runs newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Later appends win on equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies a run directory from baseDir into outDir.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", ErrRunIDRequired
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}
	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{tournamentFile, standingsFile, summaryFile} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	for _, file := range []string{trajectoryFile, strategySeriesFile} {
		path := filepath.Join(src, file)
		if _, err := os.Stat(path); err == nil {
			if err := copyFile(path, filepath.Join(dst, file)); err != nil {
				return "", err
			}
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}
	return dst, nil
}

func ReadTournament(baseDir, runID string) (model.TournamentRecord, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, tournamentFile))
	if err != nil {
		if os.IsNotExist(err) {
			return model.TournamentRecord{}, false, nil
		}
		return model.TournamentRecord{}, false, err
	}
	var record model.TournamentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.TournamentRecord{}, false, err
	}
	return record, true, nil
}

// ReadTrajectory parses trajectory.csv back into points.
func ReadTrajectory(baseDir, runID string) ([]model.TrajectoryPoint, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.TrajectoryPoint{}, true, nil
		}
		return nil, false, err
	}
	if len(header) < 3 {
		return nil, false, fmt.Errorf("trajectory header must have at least 3 columns")
	}

	points := make([]model.TrajectoryPoint, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(row) < 3 {
			return nil, false, fmt.Errorf("trajectory row must have at least 3 columns")
		}
		round, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, false, err
		}
		score, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, false, err
		}
		points = append(points, model.TrajectoryPoint{Round: round, ColonyID: row[1], TotalBattleScore: score})
	}
	return points, true, nil
}

func writeStandings(path string, standings []model.StandingRecord) error {
	rows := make([][]string, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.ColonyID,
			s.Label,
			s.Strategy,
			strconv.Itoa(s.TournamentScore),
			strconv.Itoa(s.TotalBattleScore),
		})
	}
	return writeCSV(path, []string{"rank", "colony_id", "label", "strategy", "tournament_score", "total_battle_score"}, rows)
}

func writeTrajectory(path string, points []model.TrajectoryPoint) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{strconv.Itoa(p.Round), p.ColonyID, strconv.Itoa(p.TotalBattleScore)})
	}
	return writeCSV(path, []string{"round", "colony_id", "total_battle_score"}, rows)
}

func writeStrategySeries(path string, series []SeriesPoint) error {
	rows := make([][]string, 0, len(series))
	for _, p := range series {
		rows = append(rows, []string{
			strconv.Itoa(p.Round),
			p.Strategy,
			strconv.FormatFloat(p.MeanScore, 'f', -1, 64),
		})
	}
	return writeCSV(path, []string{"round", "strategy", "mean_total_battle_score"}, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
