package jobs

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"intervue/internal/models"
	"intervue/internal/storage"
)

// ArchiveExporterJob periodically writes newly archived interviews to CSV
// files for offline reporting.
type ArchiveExporterJob struct {
	store  *storage.Store
	config *ExporterConfig
	cron   *cron.Cron
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool   // Whether to run exports
}

// NewArchiveExporterJob creates a new exporter job
func NewArchiveExporterJob(store *storage.Store, config *ExporterConfig) *ArchiveExporterJob {
	return &ArchiveExporterJob{
		store:  store,
		config: config,
		cron:   cron.New(),
	}
}

// Start begins the scheduled export job
func (aej *ArchiveExporterJob) Start() error {
	if !aej.config.ExportEnabled {
		log.Println("Archive export is disabled, skipping scheduler")
		return nil
	}

	log.Printf("Starting archive exporter with schedule: %s", aej.config.Schedule)

	_, err := aej.cron.AddFunc(aej.config.Schedule, func() {
		if err := aej.RunExport(); err != nil {
			log.Printf("Export job failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	aej.cron.Start()
	log.Println("Archive exporter started successfully")

	return nil
}

// Stop stops the scheduled export job
func (aej *ArchiveExporterJob) Stop() {
	if aej.cron != nil {
		aej.cron.Stop()
		log.Println("Archive exporter stopped")
	}
}

// RunExport performs a single export run
func (aej *ArchiveExporterJob) RunExport() error {
	log.Println("Starting archive export job...")

	archived, err := aej.store.GetUnexported()
	if err != nil {
		return fmt.Errorf("failed to get unexported interviews: %w", err)
	}

	if len(archived) == 0 {
		log.Println("No unexported interviews found")
		return nil
	}

	log.Printf("Found %d unexported interviews", len(archived))

	if err := os.MkdirAll(aej.config.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("interview_export_%s.csv", timestamp)
	path := filepath.Join(aej.config.ExportDir, filename)

	if err := writeCSV(path, archived); err != nil {
		return err
	}

	log.Printf("Exported %d interviews to %s", len(archived), path)

	ids := make([]string, len(archived))
	for i, a := range archived {
		ids[i] = a.ID
	}
	if err := aej.store.MarkExported(ids); err != nil {
		return fmt.Errorf("failed to mark as exported: %w", err)
	}

	return nil
}

// RunManual runs an export manually (for testing or on-demand exports)
func (aej *ArchiveExporterJob) RunManual() error {
	return aej.RunExport()
}

func writeCSV(path string, archived []models.ArchivedSession) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "candidate_name", "candidate_email", "candidate_phone",
		"final_score", "max_score", "summary", "completed_at"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, a := range archived {
		record := []string{
			a.ID,
			a.CandidateName,
			a.CandidateEmail,
			a.CandidatePhone,
			strconv.Itoa(a.FinalScore),
			strconv.Itoa(a.MaxScore),
			a.Summary,
			a.CompletedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
