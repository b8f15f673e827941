package excel

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/srsengine/internal/database"
	"github.com/example/srsengine/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	TitleColumn      string // Column with the lesson title
	TopicColumn      string // Column with the topic
	DifficultyColumn string // Column with the difficulty (1-5)
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
	SeedUserID       int64  // When set, seed a blank progress row per lesson for this user
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TitleColumn:      "A",
		TopicColumn:      "B",
		DifficultyColumn: "C",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// Importer loads lesson fixtures into the database
type Importer struct {
	lessons  *database.LessonRepository
	progress *database.ProgressRepository
}

// NewImporter creates an importer over the given repositories
func NewImporter(lessons *database.LessonRepository, progress *database.ProgressRepository) *Importer {
	return &Importer{lessons: lessons, progress: progress}
}

// ImportLessons imports lesson fixtures from an Excel or CSV file
func (im *Importer) ImportLessons(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return im.importFromCSV(config)
	}
	return im.importFromExcel(config)
}

// importFromExcel imports lessons from an Excel file
func (im *Importer) importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	titleIdx := columnIndex(config.TitleColumn)
	topicIdx := columnIndex(config.TopicColumn)
	difficultyIdx := columnIndex(config.DifficultyColumn)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(row, titleIdx, topicIdx, difficultyIdx, config.SeedUserID, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports lessons from a CSV file
func (im *Importer) importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	titleIdx := columnIndex(config.TitleColumn)
	topicIdx := columnIndex(config.TopicColumn)
	difficultyIdx := columnIndex(config.DifficultyColumn)

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(row, titleIdx, topicIdx, difficultyIdx, config.SeedUserID, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// processRow upserts one lesson and optionally seeds blank progress
func (im *Importer) processRow(row []string, titleIdx, topicIdx, difficultyIdx int, seedUserID int64, result *ImportResult) error {
	title := cell(row, titleIdx)
	if title == "" {
		result.Skipped++
		return nil
	}
	topic := cell(row, topicIdx)

	difficulty := 1
	if raw := cell(row, difficultyIdx); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > 5 {
			result.Skipped++
			return fmt.Errorf("invalid difficulty %q", raw)
		}
		difficulty = d
	}

	existing, err := im.lessons.GetByTitleAndTopic(title, topic)
	if err != nil {
		return err
	}

	var lesson *models.Lesson
	if existing != nil {
		existing.Difficulty = difficulty
		if err := im.lessons.Update(existing); err != nil {
			return err
		}
		lesson = existing
		result.Updated++
	} else {
		lesson = &models.Lesson{Title: title, Topic: topic, Difficulty: difficulty}
		if err := im.lessons.Create(lesson); err != nil {
			return err
		}
		result.Created++
	}

	if seedUserID != 0 {
		// Blank state: never scheduled, so the ranker surfaces it as
		// new material on the next queue build.
		return im.seedProgress(seedUserID, lesson.ID)
	}
	return nil
}

// seedProgress creates a fresh progress row unless one already exists
func (im *Importer) seedProgress(userID, lessonID int64) error {
	existing, err := im.progress.GetByUserAndLesson(userID, lessonID)
	if err == nil && existing != nil {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	progress := &models.UserProgress{
		UserID:     userID,
		LessonID:   lessonID,
		EaseFactor: 2.5,
		Interval:   1,
	}
	return im.progress.CreateOrUpdate(progress)
}

// cell returns the trimmed value at idx, or "" when the row is short
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// columnIndex converts a spreadsheet column letter ("A", "B", "AA")
// to a zero-based index. Unknown input maps to -1.
func columnIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	idx := 0
	for _, r := range column {
		if r < 'A' || r > 'Z' {
			return -1
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1
}
