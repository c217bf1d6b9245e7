// Package store persists the user-defined "additional camera" descriptors.
// This list is the only client-held state; the server never sees it except
// inside multi-camera requests and the ADDITIONAL_CAMERAS config field.
package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/LucasSch1/IAction/internal/validate"
	"github.com/LucasSch1/IAction/pkg/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateID means an add would collide with an existing camera id.
	// The add is a no-op; callers log a warning and move on.
	ErrDuplicateID = errors.New("camera id already exists")

	// ErrNotFound means the camera id is not in the store.
	ErrNotFound = errors.New("camera not found")
)

// Store is the persistence capability behind the camera list. The file
// implementation backs normal runs; tests swap in the in-memory one.
type Store interface {
	Load() ([]models.CameraDescriptor, error)
	Save([]models.CameraDescriptor) error
}

// FileStore keeps the descriptor list as an ordered YAML sequence.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() ([]models.CameraDescriptor, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cameras file: %w", err)
	}
	var cameras []models.CameraDescriptor
	if err := yaml.Unmarshal(data, &cameras); err != nil {
		return nil, fmt.Errorf("parsing cameras file: %w", err)
	}
	return cameras, nil
}

func (s *FileStore) Save(cameras []models.CameraDescriptor) error {
	data, err := yaml.Marshal(cameras)
	if err != nil {
		return fmt.Errorf("encoding cameras: %w", err)
	}
	return os.WriteFile(s.Path, data, 0o644)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	Cameras []models.CameraDescriptor
}

func (s *MemStore) Load() ([]models.CameraDescriptor, error) {
	out := make([]models.CameraDescriptor, len(s.Cameras))
	copy(out, s.Cameras)
	return out, nil
}

func (s *MemStore) Save(cameras []models.CameraDescriptor) error {
	s.Cameras = make([]models.CameraDescriptor, len(cameras))
	copy(s.Cameras, cameras)
	return nil
}

// List manages the ordered camera sequence on top of a Store.
type List struct {
	store Store
}

func NewList(s Store) *List {
	return &List{store: s}
}

func (l *List) All() ([]models.CameraDescriptor, error) {
	return l.store.Load()
}

// NextID generates the next synthetic camera id from the current count.
// The id sequence can collide after removals (three cameras, remove one,
// add one: camera_3 twice); Add guards against that.
func NextID(existing []models.CameraDescriptor) string {
	return "camera_" + strconv.Itoa(len(existing)+1)
}

// Add validates and appends a descriptor. An empty id gets the next
// generated one. A colliding id is rejected with ErrDuplicateID and the
// stored list is left untouched.
func (l *List) Add(d models.CameraDescriptor) (models.CameraDescriptor, error) {
	cameras, err := l.store.Load()
	if err != nil {
		return d, err
	}
	if d.ID == "" {
		d.ID = NextID(cameras)
	}
	if err := validate.Camera(d); err != nil {
		return d, err
	}
	for _, existing := range cameras {
		if existing.ID == d.ID {
			return d, fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
	}
	cameras = append(cameras, d)
	return d, l.store.Save(cameras)
}

// Remove detaches a descriptor and immediately reserializes the remainder,
// preserving order.
func (l *List) Remove(id string) error {
	cameras, err := l.store.Load()
	if err != nil {
		return err
	}
	kept := cameras[:0]
	found := false
	for _, c := range cameras {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.store.Save(kept)
}

// Update replaces the descriptor with the same id.
func (l *List) Update(d models.CameraDescriptor) error {
	if err := validate.Camera(d); err != nil {
		return err
	}
	cameras, err := l.store.Load()
	if err != nil {
		return err
	}
	for i, c := range cameras {
		if c.ID == d.ID {
			cameras[i] = d
			return l.store.Save(cameras)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, d.ID)
}

// Get returns one descriptor by id.
func (l *List) Get(id string) (models.CameraDescriptor, error) {
	cameras, err := l.store.Load()
	if err != nil {
		return models.CameraDescriptor{}, err
	}
	for _, c := range cameras {
		if c.ID == id {
			return c, nil
		}
	}
	return models.CameraDescriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Flatten expands a descriptor into namespaced field names of the form
// "<id>_<attr>", the shape the admin form renders camera fragments in.
func Flatten(d models.CameraDescriptor) map[string]string {
	fields := map[string]string{
		d.ID + "_name": d.Name,
		d.ID + "_mode": string(d.Mode),
	}
	switch d.Mode {
	case models.ModeRTSP:
		fields[d.ID+"_rtsp_url"] = d.RTSPURL
		if d.RTSPUsername != "" {
			fields[d.ID+"_rtsp_username"] = d.RTSPUsername
		}
		if d.RTSPPassword != "" {
			fields[d.ID+"_rtsp_password"] = d.RTSPPassword
		}
	case models.ModeHAPolling:
		fields[d.ID+"_ha_entity"] = d.HAEntity
		if d.HAAttr != "" {
			fields[d.ID+"_ha_attr"] = d.HAAttr
		}
		if d.HAInterval > 0 {
			fields[d.ID+"_ha_interval"] = strconv.FormatFloat(d.HAInterval, 'f', -1, 64)
		}
	}
	if d.AnalysisInterval > 0 {
		fields[d.ID+"_analysis_interval"] = strconv.FormatFloat(d.AnalysisInterval, 'f', -1, 64)
	}
	return fields
}

// Unflatten rebuilds a descriptor from namespaced fields. Numbers accept a
// comma decimal separator, like every other user-facing numeric input.
func Unflatten(id string, fields map[string]string) (models.CameraDescriptor, error) {
	d := models.CameraDescriptor{ID: id}
	prefix := id + "_"
	for key, value := range fields {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		switch strings.TrimPrefix(key, prefix) {
		case "name":
			d.Name = value
		case "mode":
			d.Mode = models.CameraMode(value)
		case "rtsp_url":
			d.RTSPURL = value
		case "rtsp_username":
			d.RTSPUsername = value
		case "rtsp_password":
			d.RTSPPassword = value
		case "ha_entity":
			d.HAEntity = value
		case "ha_attr":
			d.HAAttr = value
		case "ha_interval":
			v, err := validate.ParseNumber(value)
			if err != nil {
				return d, fmt.Errorf("%s: %w", key, err)
			}
			d.HAInterval = v
		case "analysis_interval":
			v, err := validate.ParseNumber(value)
			if err != nil {
				return d, fmt.Errorf("%s: %w", key, err)
			}
			d.AnalysisInterval = v
		}
	}
	return d, nil
}
