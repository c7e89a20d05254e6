package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// FileStore keeps the tracker and settings documents as JSON files. Writes
// are debounced through background workers and always go through a
// write-temp-then-rename sequence so a crash mid-write cannot corrupt the
// live file.
type FileStore struct {
	dataFile     string
	settingsFile string

	mu              sync.Mutex
	pendingData     []byte
	pendingSettings []byte

	saveDataChan     chan struct{}
	saveSettingsChan chan struct{}
	shutdownChan     chan struct{}
	shutdownOnce     sync.Once
	saveDelay        time.Duration
	logger           internal.Logger
}

func NewFileStore(dataFile, settingsFile string, logger internal.Logger) (*FileStore, error) {
	for _, f := range []string{dataFile, settingsFile} {
		if dir := filepath.Dir(f); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	s := &FileStore{
		dataFile:         dataFile,
		settingsFile:     settingsFile,
		saveDataChan:     make(chan struct{}, 1),
		saveSettingsChan: make(chan struct{}, 1),
		shutdownChan:     make(chan struct{}),
		saveDelay:        500 * time.Millisecond,
		logger:           logger,
	}

	go s.saveWorker(s.saveDataChan, s.flushData)
	go s.saveWorker(s.saveSettingsChan, s.flushSettings)

	return s, nil
}

// LoadData reads the tracker document. Missing file, bad JSON, or I/O errors
// all degrade to an empty aggregate; the error only reports the degradation.
func (s *FileStore) LoadData(ctx context.Context) (*internal.TrackerData, error) {
	data := internal.NewTrackerData()
	err := readJSONFile(s.dataFile, data)
	data.Normalize()
	if err != nil {
		s.logger.Warnf("storage: falling back to empty tracker data: %v", err)
		return internal.NewTrackerData(), err
	}
	return data, nil
}

// LoadSettings reads the settings document over the defaults, so missing keys
// keep their documented default values.
func (s *FileStore) LoadSettings(ctx context.Context) (*internal.Settings, error) {
	settings := internal.DefaultSettings()
	err := readJSONFile(s.settingsFile, settings)
	if err != nil {
		s.logger.Warnf("storage: falling back to default settings: %v", err)
		return internal.DefaultSettings(), err
	}
	settings.Normalize()
	return settings, nil
}

func (s *FileStore) SaveData(ctx context.Context, data *internal.TrackerData) error {
	return s.enqueue(data, &s.pendingData, s.saveDataChan)
}

func (s *FileStore) SaveSettings(ctx context.Context, settings *internal.Settings) error {
	return s.enqueue(settings, &s.pendingSettings, s.saveSettingsChan)
}

// enqueue serializes the document immediately, so the snapshot handed to the
// worker cannot be mutated behind its back, and nudges the save worker.
func (s *FileStore) enqueue(doc interface{}, pending *[]byte, nudge chan struct{}) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	s.mu.Lock()
	*pending = raw
	s.mu.Unlock()
	select {
	case nudge <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStore) saveWorker(nudge chan struct{}, flush func() error) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-nudge:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := flush(); err != nil {
				s.logger.Errorf("storage: deferred save failed: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStore) flushData() error {
	return s.flushPending(&s.pendingData, s.dataFile)
}

func (s *FileStore) flushSettings() error {
	return s.flushPending(&s.pendingSettings, s.settingsFile)
}

func (s *FileStore) flushPending(pending *[]byte, path string) error {
	s.mu.Lock()
	raw := *pending
	*pending = nil
	s.mu.Unlock()
	if raw == nil {
		return nil
	}
	return atomicWriteFile(path, raw)
}

// Flush writes any pending documents synchronously.
func (s *FileStore) Flush() error {
	if err := s.flushData(); err != nil {
		return err
	}
	return s.flushSettings()
}

// Close stops the save workers and flushes pending writes.
func (s *FileStore) Close() error {
	s.shutdownOnce.Do(func() { close(s.shutdownChan) })
	return s.Flush()
}

func readJSONFile(path string, target interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFile(path string, raw []byte) error {
	tempFile := path + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, path)
}

var _ DataStore = (*FileStore)(nil)
