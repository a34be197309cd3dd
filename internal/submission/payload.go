package submission

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/wolfman30/coaching-intake/internal/intake"
)

// TriggerSeparator joins the off-track triggers into one spreadsheet cell.
const TriggerSeparator = ", "

// TimestampLayout is ISO 8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload is the JSON body posted to the spreadsheet endpoint: every record
// field, the triggers flattened to text and a submission timestamp.
type Payload struct {
	intake.Record
	ThrowsYouOffTrack string `json:"throwsYouOffTrack"`
	Timestamp         string `json:"timestamp"`
}

// BuildPayload flattens rec for the spreadsheet row stamped at at.
func BuildPayload(rec intake.Record, at time.Time) Payload {
	return Payload{
		Record:            rec,
		ThrowsYouOffTrack: strings.Join(rec.ThrowsYouOffTrack, TriggerSeparator),
		Timestamp:         at.UTC().Format(TimestampLayout),
	}
}

// SheetHeaders is the header row of the destination sheet.
var SheetHeaders = []string{
	"Timestamp",
	"Full Name",
	"Email",
	"Age",
	"Height",
	"Current Weight",
	"Time Zone",
	"How did you hear about me",
	"Main Goal",
	"Goal Motivation",
	"Tried Goal Before",
	"What Held You Back",
	"Feeling in 3-6 Months",
	"Commitment Level",
	"Throws You Off Track",
	"Support Style",
	"Working with Coach",
	"Gym Access",
	"Exercise Days Per Week",
	"Workout Types",
	"Steps Tracking",
	"Medical Conditions",
	"Typical Eating",
	"Open to Tracking Food",
	"Currently Tracking Food",
	"Dietary Needs",
	"Eating Out Frequency",
	"Water Intake",
	"Sleep Hours",
	"Sleep Quality",
	"Stress Level",
	"Travel Schedule",
	"Coaching Type",
	"Start Timeline",
	"Additional Notes",
}

// SheetRow returns the payload's cells in SheetHeaders order.
func SheetRow(p Payload) []string {
	r := p.Record
	return []string{
		p.Timestamp,
		r.FullName,
		r.Email,
		string(r.Age),
		r.Height,
		r.CurrentWeight,
		r.TimeZone,
		r.HowDidYouHear,
		r.MainGoal,
		r.GoalMotivation,
		r.TriedBefore,
		r.WhatHeldYouBack,
		r.Feeling3to6Months,
		string(r.CommitmentLevel),
		p.ThrowsYouOffTrack,
		r.SupportStyle,
		r.WorkingWithCoach,
		r.GymAccess,
		string(r.ExerciseDaysPerWeek),
		r.WorkoutTypes,
		r.StepsTracking,
		r.MedicalConditions,
		r.TypicalEating,
		r.OpenToTrackingFood,
		r.CurrentlyTrackingFood,
		r.DietaryNeeds,
		r.EatingOutFrequency,
		r.WaterIntake,
		r.SleepHours,
		r.SleepQuality,
		string(r.StressLevel),
		r.TravelSchedule,
		r.CoachingType,
		r.StartTimeline,
		r.AdditionalNotes,
	}
}

// Encode renders the payload as the request body.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
