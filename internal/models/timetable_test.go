package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowValidation(t *testing.T) {
	testCases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "ordinary lesson", start: "0800", end: "0845"},
		{name: "ends at midnight boundary", start: "2300", end: "2359"},
		{name: "empty window", start: "0900", end: "0900", wantErr: true},
		{name: "reversed window", start: "0900", end: "0800", wantErr: true},
		{name: "not padded", start: "800", end: "0845", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lesson := &LessonHour{Num: 1, StartTime: tc.start, EndTime: tc.end}
			brk := &BreakHour{Num: 1, StartTime: tc.start, EndTime: tc.end}
			if tc.wantErr {
				assert.Error(t, lesson.Validate())
				assert.Error(t, brk.Validate())
			} else {
				assert.NoError(t, lesson.Validate())
				assert.NoError(t, brk.Validate())
			}
		})
	}
}

func TestNamesRejectReplySeparators(t *testing.T) {
	assert.NoError(t, (&Classroom{ID: 1, Name: "C++ lab 100%"}).Validate())
	assert.NoError(t, (&Teacher{ID: 1, FirstName: " Anna", LastName: "Nowak "}).Validate())

	assert.Error(t, (&Classroom{ID: 1, Name: "Room;12"}).Validate())
	assert.Error(t, (&Class{ID: 1, Name: "A\nB"}).Validate())
	assert.Error(t, (&Subject{ID: 1, Name: "Math\r"}).Validate())
	assert.Error(t, (&Teacher{ID: 1, FirstName: "Anna", LastName: "a;b"}).Validate())
	assert.Error(t, (&Class{ID: 1, Name: ""}).Validate())
}
