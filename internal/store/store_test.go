package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readimeter/readimeter/internal/readiness"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func sampleAssessment() *Assessment {
	in := readiness.Inputs{
		ProcessVolume:         1000,
		Variance:              90,
		ExceptionRate:         10,
		DataQuality:           70,
		SystemAccess:          60,
		ComplianceSensitivity: 30,
	}
	return NewAssessment(in, readiness.Evaluate(in))
}

func TestSaveAndGetAssessment(t *testing.T) {
	s := openTestStore(t)

	a := sampleAssessment()
	require.NoError(t, s.SaveAssessment(a))

	got, err := s.GetAssessment(a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Inputs, got.Inputs)
	assert.Equal(t, a.Score, got.Score)
	assert.Equal(t, a.Band, got.Band)
	require.Len(t, got.Blockers, len(a.Blockers))
	assert.Equal(t, a.Blockers[0].Reason, got.Blockers[0].Reason)
}

func TestGetAssessmentMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetAssessment("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListAssessmentsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	first := sampleAssessment()
	require.NoError(t, s.SaveAssessment(first))

	second := sampleAssessment()
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, s.SaveAssessment(second))

	list, err := s.ListAssessments(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestListAssessmentsLimit(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveAssessment(sampleAssessment()))
	}

	list, err := s.ListAssessments(3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestSaveAndLoadInputs(t *testing.T) {
	s := openTestStore(t)

	in := readiness.Inputs{
		ProcessVolume:         500,
		Variance:              20,
		ExceptionRate:         15,
		DataQuality:           80,
		SystemAccess:          75,
		ComplianceSensitivity: 10,
	}
	require.NoError(t, s.SaveInputs(DefaultInputSlot, in))

	got, found, err := s.LoadInputs(DefaultInputSlot)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, got)
}

func TestSaveInputsOverwritesSlot(t *testing.T) {
	s := openTestStore(t)

	in := readiness.Inputs{ProcessVolume: 100}
	require.NoError(t, s.SaveInputs(DefaultInputSlot, in))

	in.ProcessVolume = 200
	require.NoError(t, s.SaveInputs(DefaultInputSlot, in))

	got, found, err := s.LoadInputs(DefaultInputSlot)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 200, got.ProcessVolume)
}

func TestLoadInputsMissingSlot(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.LoadInputs("unsaved")
	require.NoError(t, err)
	assert.False(t, found)
}
