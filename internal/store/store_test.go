package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasSch1/IAction/pkg/models"
)

func rtspCamera(id string) models.CameraDescriptor {
	return models.CameraDescriptor{
		ID:      id,
		Name:    "Test " + id,
		Mode:    models.ModeRTSP,
		RTSPURL: "rtsp://cam.local:554/" + id,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.yaml")
	s := NewFileStore(path)

	// Missing file reads as an empty list, not an error.
	cameras, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, cameras)

	in := []models.CameraDescriptor{rtspCamera("camera_1"), {
		ID:         "camera_2",
		Name:       "Front Door",
		Mode:       models.ModeHAPolling,
		HAEntity:   "camera.front_door",
		HAInterval: 2.5,
	}}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestListAdd(t *testing.T) {
	l := NewList(&MemStore{})

	t.Run("generates ids from the count", func(t *testing.T) {
		added, err := l.Add(models.CameraDescriptor{
			Mode:    models.ModeRTSP,
			RTSPURL: "rtsp://cam.local/a",
		})
		require.NoError(t, err)
		assert.Equal(t, "camera_1", added.ID)

		added, err = l.Add(models.CameraDescriptor{
			Mode:    models.ModeRTSP,
			RTSPURL: "rtsp://cam.local/b",
		})
		require.NoError(t, err)
		assert.Equal(t, "camera_2", added.ID)
	})

	t.Run("rejects duplicates without touching the list", func(t *testing.T) {
		_, err := l.Add(rtspCamera("camera_1"))
		assert.ErrorIs(t, err, ErrDuplicateID)

		cameras, err := l.All()
		require.NoError(t, err)
		assert.Len(t, cameras, 2)
	})

	t.Run("rejects the reserved id", func(t *testing.T) {
		_, err := l.Add(rtspCamera(models.MainCameraID))
		assert.Error(t, err)
	})
}

// Removing a camera and adding a new one can regenerate an id that is still
// taken; the collision guard turns that into a rejected no-op.
func TestNextIDCollisionAfterRemoval(t *testing.T) {
	l := NewList(&MemStore{})
	for _, id := range []string{"camera_1", "camera_2", "camera_3"} {
		_, err := l.Add(rtspCamera(id))
		require.NoError(t, err)
	}
	require.NoError(t, l.Remove("camera_1"))

	// Two cameras left, so the generated id is camera_3 again.
	cameras, err := l.All()
	require.NoError(t, err)
	assert.Equal(t, "camera_3", NextID(cameras))

	_, err = l.Add(models.CameraDescriptor{
		Mode:    models.ModeRTSP,
		RTSPURL: "rtsp://cam.local/new",
	})
	assert.ErrorIs(t, err, ErrDuplicateID)

	cameras, err = l.All()
	require.NoError(t, err)
	assert.Len(t, cameras, 2)
}

func TestListRemove(t *testing.T) {
	l := NewList(&MemStore{})
	_, err := l.Add(rtspCamera("camera_1"))
	require.NoError(t, err)
	_, err = l.Add(rtspCamera("camera_2"))
	require.NoError(t, err)

	require.NoError(t, l.Remove("camera_1"))

	cameras, err := l.All()
	require.NoError(t, err)
	require.Len(t, cameras, 1)
	assert.Equal(t, "camera_2", cameras[0].ID)

	assert.ErrorIs(t, l.Remove("camera_9"), ErrNotFound)
}

func TestListUpdate(t *testing.T) {
	l := NewList(&MemStore{})
	_, err := l.Add(rtspCamera("camera_1"))
	require.NoError(t, err)

	updated := rtspCamera("camera_1")
	updated.AnalysisInterval = 5
	require.NoError(t, l.Update(updated))

	got, err := l.Get("camera_1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AnalysisInterval)

	assert.ErrorIs(t, l.Update(rtspCamera("camera_9")), ErrNotFound)
}

func TestFlattenUnflatten(t *testing.T) {
	d := models.CameraDescriptor{
		ID:               "camera_2",
		Name:             "Garage",
		Mode:             models.ModeHAPolling,
		HAEntity:         "camera.garage",
		HAAttr:           "entity_picture",
		HAInterval:       2,
		AnalysisInterval: 1.5,
	}

	fields := Flatten(d)
	assert.Equal(t, "Garage", fields["camera_2_name"])
	assert.Equal(t, "ha_polling", fields["camera_2_mode"])
	assert.Equal(t, "camera.garage", fields["camera_2_ha_entity"])

	got, err := Unflatten("camera_2", fields)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestUnflattenIgnoresForeignFields(t *testing.T) {
	fields := map[string]string{
		"camera_1_name":     "Mine",
		"camera_1_mode":     "rtsp",
		"camera_1_rtsp_url": "rtsp://cam.local/1",
		"camera_2_name":     "Not mine",
		"OLLAMA_URL":        "http://localhost:11434",
	}
	got, err := Unflatten("camera_1", fields)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)
	assert.Equal(t, models.ModeRTSP, got.Mode)
}

func TestUnflattenCommaNumbers(t *testing.T) {
	got, err := Unflatten("camera_1", map[string]string{
		"camera_1_mode":              "rtsp",
		"camera_1_rtsp_url":          "rtsp://cam.local/1",
		"camera_1_analysis_interval": "1,5",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.AnalysisInterval)

	_, err = Unflatten("camera_1", map[string]string{
		"camera_1_analysis_interval": "abc",
	})
	assert.Error(t, err)
}
