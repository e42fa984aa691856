// Package csvroster читает маршрут и список пассажиров из CSV выгрузок
// с теми же колонками, что и коллекции источника.
package csvroster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"go.uber.org/zap"
)

type rosterRepository struct {
	logger *zap.Logger
}

func NewRosterRepository(logger *zap.Logger) repository.RosterRepository {
	return &rosterRepository{logger: logger}
}

func (r *rosterRepository) LoadStations(_ context.Context, q repository.RosterQuery) ([]domain.StationRecord, error) {
	var stations []domain.StationRecord
	if err := r.readFile(q.StationsPath, &stations); err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}

	r.logger.Debug("Stations loaded", zap.String("path", q.StationsPath), zap.Int("count", len(stations)))
	return stations, nil
}

func (r *rosterRepository) LoadPassengers(_ context.Context, q repository.RosterQuery) ([]domain.PassengerRecord, error) {
	var all []domain.PassengerRecord
	if err := r.readFile(q.PassengersPath, &all); err != nil {
		return nil, fmt.Errorf("load passengers: %w", err)
	}

	// выгрузка может содержать несколько поездов
	passengers := make([]domain.PassengerRecord, 0, len(all))
	for _, p := range all {
		if q.TrainNo != "" && p.TrainNo != "" && p.TrainNo != q.TrainNo {
			continue
		}
		passengers = append(passengers, p)
	}

	r.logger.Debug("Passengers loaded",
		zap.String("path", q.PassengersPath),
		zap.Int("count", len(passengers)),
		zap.Int("skipped", len(all)-len(passengers)))
	return passengers, nil
}

func (r *rosterRepository) readFile(path string, out interface{}) error {
	if path == "" {
		return fmt.Errorf("csv path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		r.logger.Error("Failed to open csv", zap.String("path", path), zap.Error(err))
		return err
	}
	defer f.Close()

	if err := Unmarshal(f, out); err != nil {
		r.logger.Error("Failed to parse csv", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// Unmarshal - разбор CSV с заголовком; строки с недостающими колонками допускаются
func Unmarshal(in io.Reader, out interface{}) error {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return gocsv.UnmarshalCSV(trimmingReader{reader}, out)
}

// trimmingReader - убирает пробелы по краям значений
type trimmingReader struct {
	*csv.Reader
}

func (t trimmingReader) Read() ([]string, error) {
	rec, err := t.Reader.Read()
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	return rec, err
}

func (t trimmingReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := t.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
