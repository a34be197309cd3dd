package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric answer kept as entered. Non-numeric text survives
// decoding so the validator can report it instead of the decoder failing.
type Number string

// Int builds a Number from an integer.
func Int(n int) Number {
	return Number(strconv.Itoa(n))
}

// Float parses the answer. Blank or non-numeric text returns ok=false, and so
// do NaN and the infinities, which ParseFloat would otherwise accept.
func (n Number) Float() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MarshalJSON writes numeric answers as JSON numbers and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if f, ok := n.Float(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(string(n))
}

// UnmarshalJSON accepts a JSON number, a string or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			// Not wrapped: an Unmarshaler error stops decoding, so it must not
			// read as a recoverable type mismatch.
			return fmt.Errorf("intake: numeric answer must be a number or string: %v", err)
		}
		*n = Number(num.String())
		return nil
	}
}

// Record is one complete set of intake answers.
type Record struct {
	// Personal information
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Age           Number `json:"age"`
	Height        string `json:"height"`
	CurrentWeight string `json:"currentWeight"`
	TimeZone      string `json:"timeZone"`
	HowDidYouHear string `json:"howDidYouHear"`

	// Goals & motivation
	MainGoal          string `json:"mainGoal"`
	GoalMotivation    string `json:"goalMotivation"`
	TriedBefore       string `json:"triedBefore"`
	WhatHeldYouBack   string `json:"whatHeldYouBack"`
	Feeling3to6Months string `json:"feeling3to6Months"`
	CommitmentLevel   Number `json:"commitmentLevel"`

	// Lifestyle & struggles
	ThrowsYouOffTrack      []string `json:"throwsYouOffTrack"`
	ThrowsYouOffTrackOther string   `json:"throwsYouOffTrackOther"`
	SupportStyle           string   `json:"supportStyle"`
	WorkingWithCoach       string   `json:"workingWithCoach"`
	GymAccess              string   `json:"gymAccess"`

	// Workouts
	ExerciseDaysPerWeek Number `json:"exerciseDaysPerWeek"`
	WorkoutTypes        string `json:"workoutTypes"`

	// Health & physical condition
	StepsTracking         string `json:"stepsTracking"`
	MedicalConditions     string `json:"medicalConditions"`
	TypicalEating         string `json:"typicalEating"`
	OpenToTrackingFood    string `json:"openToTrackingFood"`
	CurrentlyTrackingFood string `json:"currentlyTrackingFood"`
	DietaryNeeds          string `json:"dietaryNeeds"`
	EatingOutFrequency    string `json:"eatingOutFrequency"`
	WaterIntake           string `json:"waterIntake"`
	SleepHours            string `json:"sleepHours"`
	SleepQuality          string `json:"sleepQuality"`
	StressLevel           Number `json:"stressLevel"`
	TravelSchedule        string `json:"travelSchedule"`

	// Program interest
	CoachingType    string `json:"coachingType"`
	StartTimeline   string `json:"startTimeline"`
	AdditionalNotes string `json:"additionalNotes"`
}

// Defaults returns a record holding every field's default value.
func Defaults() Record {
	return Record{
		Age:                   Int(0),
		TriedBefore:           "no",
		CommitmentLevel:       Int(5),
		ThrowsYouOffTrack:     []string{},
		SupportStyle:          "step-by-step",
		WorkingWithCoach:      "no",
		GymAccess:             "none",
		ExerciseDaysPerWeek:   Int(5),
		OpenToTrackingFood:    "no",
		CurrentlyTrackingFood: "no",
		EatingOutFrequency:    "rarely",
		WaterIntake:           "1-2L",
		SleepHours:            "7",
		SleepQuality:          "rested",
		StressLevel:           Int(5),
		TravelSchedule:        "no",
		CoachingType:          "fitness",
		StartTimeline:         "not-sure",
	}
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	out.ThrowsYouOffTrack = append([]string{}, r.ThrowsYouOffTrack...)
	return out
}

// DecodeRecord decodes a stored record onto the defaults. Keys present in data
// win, missing keys keep their default and unknown keys are ignored.
//
// A key whose stored type no longer matches keeps its default while the other
// keys still merge; the record is returned together with an error wrapping
// *json.UnmarshalTypeError. Any other error means the payload is unusable.
func DecodeRecord(data []byte) (Record, error) {
	rec := Defaults()
	if err := json.Unmarshal(data, &rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return Record{}, fmt.Errorf("intake: decode record: %w", err)
		}
		rec.normalize()
		return rec, fmt.Errorf("intake: decode record: %w", err)
	}
	rec.normalize()
	return rec, nil
}

// IsPartialDecode reports whether err from DecodeRecord left a usable record.
func IsPartialDecode(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

func (r *Record) normalize() {
	if r.ThrowsYouOffTrack == nil {
		r.ThrowsYouOffTrack = []string{}
	}
}
