package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProbeRun is one analysis invocation
type ProbeRun struct {
	ID         string        `gorm:"primaryKey" json:"id"`
	DataDir    string        `gorm:"not null" json:"data_dir"`
	FirstFrame int           `json:"first_frame"`
	LastFrame  int           `json:"last_frame"`
	Probes     int           `json:"probes"`
	Samples    []ProbeSample `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"samples,omitempty"`
	CreatedAt  int64         `gorm:"autoCreateTime" json:"created_at"`
}

func (ProbeRun) TableName() string {
	return "probe_runs"
}

// ProbeSample is the value seen at one probe in one frame
type ProbeSample struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	RunID     string  `gorm:"index;not null" json:"run_id"`
	Frame     int     `gorm:"index" json:"frame"`
	Probe     string  `json:"probe"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Velocity  float64 `json:"velocity"`
	NearForce float64 `json:"near_force"`
	PeakForce float64 `json:"peak_force"`
}

func (ProbeSample) TableName() string {
	return "probe_samples"
}

// sampleBatchSize rows of 8 columns per INSERT
const sampleBatchSize = 500

// RunStore persists probe runs in SQLite
type RunStore struct {
	db *gorm.DB
}

// OpenRunStore opens (and migrates) the SQLite database at path
func OpenRunStore(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&ProbeRun{}, &ProbeSample{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Close releases the underlying connection
func (s *RunStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun stores the accumulator under a fresh run id and returns the id
func (s *RunStore) SaveRun(cfg ProbeConfig, acc *Accumulator) (string, error) {
	run := ProbeRun{
		ID:         uuid.New().String(),
		DataDir:    cfg.DataDir,
		FirstFrame: cfg.FirstFrame,
		LastFrame:  cfg.LastFrame,
		Probes:     len(acc.Probes),
		CreatedAt:  time.Now().Unix(),
	}

	var samples []ProbeSample
	for _, sample := range acc.Samples {
		for k, probe := range acc.Probes {
			row := ProbeSample{
				RunID:     run.ID,
				Frame:     sample.Frame,
				Probe:     probe.Name,
				X:         probe.X,
				Y:         probe.Y,
				Velocity:  sample.Velocity[k],
				PeakForce: sample.PeakForce,
			}
			if sample.HasForces {
				row.NearForce = sample.NearForce[k]
			}
			samples = append(samples, row)
		}
	}

	// one INSERT per batch keeps each statement under SQLite's bound variable limit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Samples").Create(&run).Error; err != nil {
			return err
		}
		if len(samples) == 0 {
			return nil
		}
		return tx.CreateInBatches(samples, sampleBatchSize).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return run.ID, nil
}

// LoadRun fetches a run and its samples ordered by frame and probe
func (s *RunStore) LoadRun(id string) (*ProbeRun, error) {
	var run ProbeRun
	err := s.db.Preload("Samples", func(db *gorm.DB) *gorm.DB {
		return db.Order("frame, probe")
	}).First(&run, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns all runs, newest first, without samples
func (s *RunStore) ListRuns() ([]ProbeRun, error) {
	var runs []ProbeRun
	if err := s.db.Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
