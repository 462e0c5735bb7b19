package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	metadataFile = "metadata.json"
	speciesFile  = "species.csv"
)

var speciesHeader = []string{"species", "mole_fraction", "partial_pressure_pa", "mass_kg"}

type Store struct {
	baseDir string
	Log     logrus.FieldLogger
}

func New(baseDir string) *Store {
	l := logrus.New()
	l.Out = io.Discard
	return &Store{baseDir: baseDir, Log: l}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes plan under a new directory and returns its id. The id in
// plan.Metadata is overwritten.
func (s *Store) Save(plan *Plan) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%d", slug(plan.Metadata), now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	plan.Metadata.ID = id
	if plan.Metadata.Timestamp.IsZero() {
		plan.Metadata.Timestamp = now
	}

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan.Metadata); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, speciesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSpeciesCSV(csvFile, plan.Species); err != nil {
		return "", err
	}

	s.Log.WithFields(logrus.Fields{
		"id":      id,
		"species": len(plan.Species),
	}).Info("saved fill plan")
	return id, nil
}

func slug(m Metadata) string {
	name := m.Name
	if name == "" {
		name = strings.ToLower(m.Fuel + "-" + m.Oxidizer)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}

// WriteSpeciesCSV writes rows with a header line.
func WriteSpeciesCSV(out io.Writer, rows []SpeciesRow) error {
	w := csv.NewWriter(out)
	if err := w.Write(speciesHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Species,
			strconv.FormatFloat(r.MoleFraction, 'g', -1, 64),
			strconv.FormatFloat(r.PartialPressure, 'g', -1, 64),
			strconv.FormatFloat(r.Mass, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every saved plan, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	plans := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.Log.WithFields(logrus.Fields{
				"dir":   entry.Name(),
				"error": err,
			}).Debug("skipping directory")
			continue
		}
		plans = append(plans, *meta)
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Timestamp.Before(plans[j].Timestamp)
	})
	return plans, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("plan %s: %w", id, err)
	}
	return &meta, nil
}

func (s *Store) LoadSpecies(id string) ([]SpeciesRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, speciesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(speciesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", id, err)
	}
	if len(records) < 2 {
		return []SpeciesRow{}, nil
	}

	rows := make([]SpeciesRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("plan %s: line %d: %w", id, i+2, err)
			}
			vals[j] = v
		}
		rows = append(rows, SpeciesRow{
			Species:         rec[0],
			MoleFraction:    vals[0],
			PartialPressure: vals[1],
			Mass:            vals[2],
		})
	}
	return rows, nil
}

// Plan loads the metadata and species of a saved plan.
func (s *Store) Plan(id string) (*Plan, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.LoadSpecies(id)
	if err != nil {
		return nil, err
	}
	return &Plan{Metadata: *meta, Species: rows}, nil
}
