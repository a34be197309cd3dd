package intake

const (
	sectionPersonal  = "Personal Information"
	sectionGoals     = "Goals & Motivation"
	sectionLifestyle = "Current Lifestyle & Struggles"
	sectionWorkout   = "Current Workout Details"
	sectionHealth    = "Health & Physical Condition"
	sectionProgram   = "Program Interest"
)

var (
	yesNo = []Option{{"yes", "Yes"}, {"no", "No"}}

	timeZoneOptions = []Option{
		{"EST", "EST (Eastern Standard Time)"},
		{"CST", "CST (Central Standard Time)"},
		{"MST", "MST (Mountain Standard Time)"},
		{"PST", "PST (Pacific Standard Time)"},
		{"AKST", "AKST (Alaska Standard Time)"},
		{"HST", "HST (Hawaii Standard Time)"},
		{"UTC", "UTC (Coordinated Universal Time)"},
		{"GMT", "GMT (Greenwich Mean Time)"},
		{"CET", "CET (Central European Time)"},
		{"IST", "IST (Indian Standard Time)"},
		{"JST", "JST (Japan Standard Time)"},
		{"AEST", "AEST (Australian Eastern Standard Time)"},
	}
	offTrackOptions = []Option{
		{"all-or-nothing", "All-or-nothing thinking"},
		{"emotional-eating", "Emotional/Stress eating"},
		{"lack-motivation", "Lack of motivation"},
		{"no-accountability", "Not having accountability"},
		{"dont-know", "Not knowing what to do"},
		{"other", "Other"},
	}
	supportStyleOptions = []Option{
		{"step-by-step", "Step-by-step / clear direction"},
		{"accountability", "Accountability & motivation"},
		{"tough-love", "Tough love / no-nonsense"},
		{"all-three", "A mix of all three"},
	}
	gymAccessOptions = []Option{
		{"commercial", "Commercial gym"},
		{"home", "Home gym"},
		{"none", "No equipment"},
	}
	openToTrackingOptions  = []Option{{"yes", "Yes"}, {"no", "No"}, {"maybe", "Maybe"}}
	currentlyTrackingOpts  = []Option{{"yes", "Yes"}, {"no", "No"}, {"sometimes", "Sometimes"}}
	eatingOutOptions       = []Option{{"rarely", "Rarely"}, {"1-2x", "1–2×/week"}, {"3-4x", "3–4×/week"}, {"5plus", "5+×/week"}}
	waterIntakeOptions     = []Option{{"less1L", "Less than 1 L"}, {"1-2L", "1–2 L"}, {"2-3L", "2–3 L"}, {"3plus", "3 L+"}}
	sleepHoursOptions      = []Option{{"less5", "< 5 hours"}, {"6", "6 hours"}, {"7", "7 hours"}, {"8", "8 hours"}, {"9plus", "9+ hours"}}
	sleepQualityOptions    = []Option{{"tired", "I wake up tired most days"}, {"rested", "I feel rested most days"}, {"inconsistent", "It's inconsistent"}}
	travelScheduleOptions  = []Option{{"yes", "Yes"}, {"no", "No"}, {"occasionally", "Occasionally"}}
	coachingTypeOptions    = []Option{{"fitness", "Fitness Coaching"}, {"nutrition", "Nutrition Coaching"}, {"both", "Fitness + Nutrition Coaching"}}
	startTimelineOptions   = []Option{{"immediately", "Immediately"}, {"1-4weeks", "In the next 1–4 weeks"}, {"month", "In the next month"}, {"not-sure", "Not sure / exploring for now"}}
)

// CoachingSchema is the fixed intake field table.
var CoachingSchema = NewSchema([]Field{
	// Page 1
	{
		Name: "fullName", Label: "Full Name", Prompt: "Full Name", Section: sectionPersonal,
		Kind: KindShortText, Page: 1, Min: 2, Max: 100,
		MinMessage: "Name must be at least 2 characters",
		MaxMessage: "Name must be less than 100 characters",
		text:       func(r *Record) *string { return &r.FullName },
	},
	{
		Name: "email", Label: "Email", Prompt: "Email", Section: sectionPersonal,
		Kind: KindShortText, Page: 1, Format: "email",
		InvalidMessage: "Please enter a valid email address",
		text:           func(r *Record) *string { return &r.Email },
	},
	{
		Name: "age", Label: "Age", Prompt: "Age", Section: sectionPersonal,
		Kind: KindInteger, Page: 1, Min: 15, Max: 120,
		number: func(r *Record) *Number { return &r.Age },
	},
	{
		Name: "height", Label: "Height", Prompt: "Height", Section: sectionPersonal,
		Kind: KindShortText, Page: 1, Min: 2, Max: 50,
		MinMessage: "Height is required",
		text:       func(r *Record) *string { return &r.Height },
	},
	{
		Name: "currentWeight", Label: "Current Weight", Prompt: "Current Weight", Section: sectionPersonal,
		Kind: KindShortText, Page: 1, Min: 2, Max: 50,
		MinMessage: "Weight is required",
		text:       func(r *Record) *string { return &r.CurrentWeight },
	},
	{
		Name: "timeZone", Label: "Time Zone", Prompt: "Your Current Time Zone", Section: sectionPersonal,
		Kind: KindSingleChoice, Page: 1, Options: timeZoneOptions,
		InvalidMessage: "Please select a time zone",
		text:           func(r *Record) *string { return &r.TimeZone },
	},
	{
		Name: "howDidYouHear", Label: "How Did You Hear", Prompt: "How do you hear about me?", Section: sectionPersonal,
		Kind: KindShortText, Page: 1, Max: 200, Optional: true,
		text: func(r *Record) *string { return &r.HowDidYouHear },
	},
	{
		Name: "mainGoal", Label: "Main Goal", Prompt: "What is your #1 goal right now?", Section: sectionGoals,
		Kind: KindLongText, Page: 1, Min: 10, Max: 500,
		MinMessage: "Please describe your main goal (at least 10 characters)",
		text:       func(r *Record) *string { return &r.MainGoal },
	},
	{
		Name: "goalMotivation", Label: "Goal Motivation", Section: sectionGoals,
		Prompt: "Why do you want to achieve this goal? What would change in your life if you achieved it?",
		Kind:   KindLongText, Page: 1, Min: 10, Max: 1000,
		MinMessage: "Please explain why this goal matters (at least 10 characters)",
		text:       func(r *Record) *string { return &r.GoalMotivation },
	},
	{
		Name: "triedBefore", Label: "Tried Before", Prompt: "Have you tried to reach this goal before?", Section: sectionGoals,
		Kind: KindSingleChoice, Page: 1, Options: yesNo,
		text: func(r *Record) *string { return &r.TriedBefore },
	},
	{
		Name: "whatHeldYouBack", Label: "What Held You Back", Prompt: "What got in the way/what held you back?", Section: sectionGoals,
		Kind: KindLongText, Page: 1, Min: 5, Max: 1000,
		MinMessage: "Please describe what held you back",
		text:       func(r *Record) *string { return &r.WhatHeldYouBack },
	},
	{
		Name: "feeling3to6Months", Label: "Feeling in 3-6 Months", Section: sectionGoals,
		Prompt: "If you don't make a change now, how will you feel 3–6 months from today?",
		Kind:   KindLongText, Page: 1, Min: 5, Max: 1000,
		MinMessage: "Please describe how you'd feel without making changes",
		text:       func(r *Record) *string { return &r.Feeling3to6Months },
	},
	{
		Name: "commitmentLevel", Label: "Commitment Level", Section: sectionGoals,
		Prompt: "On a scale of 1–10, how committed are you to making a real change right now?",
		Kind:   KindInteger, Page: 1, Min: 1, Max: 10,
		number: func(r *Record) *Number { return &r.CommitmentLevel },
	},

	// Page 2
	{
		Name: "throwsYouOffTrack", Label: "What Throws You Off Track", Prompt: "What tends to throw you off track?", Section: sectionLifestyle,
		Kind: KindMultiChoice, Page: 2, Min: 1, Options: offTrackOptions,
		MinMessage: "Please select at least one option",
		list:       func(r *Record) *[]string { return &r.ThrowsYouOffTrack },
	},
	{
		Name: "throwsYouOffTrackOther", Label: "Other Reason", Prompt: "Other (please specify)", Section: sectionLifestyle,
		Kind: KindShortText, Page: 2, Max: 100, Optional: true,
		text: func(r *Record) *string { return &r.ThrowsYouOffTrackOther },
	},
	{
		Name: "supportStyle", Label: "Support Style", Prompt: "What kind of support do you respond best to?", Section: sectionLifestyle,
		Kind: KindSingleChoice, Page: 2, Options: supportStyleOptions,
		text: func(r *Record) *string { return &r.SupportStyle },
	},
	{
		Name: "workingWithCoach", Label: "Working With Coach", Prompt: "Are you currently working with any coach/trainer?", Section: sectionLifestyle,
		Kind: KindSingleChoice, Page: 2, Options: yesNo,
		text: func(r *Record) *string { return &r.WorkingWithCoach },
	},
	{
		Name: "gymAccess", Label: "Gym Access", Prompt: "Do you have access to a gym or home exercise equipment?", Section: sectionLifestyle,
		Kind: KindSingleChoice, Page: 2, Options: gymAccessOptions,
		text: func(r *Record) *string { return &r.GymAccess },
	},
	{
		Name: "exerciseDaysPerWeek", Label: "Exercise Days Per Week", Prompt: "How many days per week do you exercise?", Section: sectionWorkout,
		Kind: KindInteger, Page: 2, Min: 0, Max: 7,
		number: func(r *Record) *Number { return &r.ExerciseDaysPerWeek },
	},
	{
		Name: "workoutTypes", Label: "Workout Types", Prompt: "What type of workouts?", Section: sectionWorkout,
		Kind: KindShortText, Page: 2, Min: 2, Max: 200,
		MinMessage: "Please describe your workout types",
		text:       func(r *Record) *string { return &r.WorkoutTypes },
	},

	// Page 3
	{
		Name: "stepsTracking", Label: "Steps Tracking", Section: sectionHealth,
		Prompt: "Do you currently track your daily steps? If yes, how many on average?",
		Kind:   KindShortText, Page: 3, Max: 100, Optional: true,
		text: func(r *Record) *string { return &r.StepsTracking },
	},
	{
		Name: "medicalConditions", Label: "Medical Conditions", Section: sectionHealth,
		Prompt: "Any current or past injuries / pain / medical conditions I should know about?",
		Kind:   KindLongText, Page: 3, Min: 2, Max: 1000,
		MinMessage: "Please describe your medical considerations",
		text:       func(r *Record) *string { return &r.MedicalConditions },
	},
	{
		Name: "typicalEating", Label: "Typical Eating", Prompt: "Share what a typical day of eating looks like for you", Section: sectionHealth,
		Kind: KindLongText, Page: 3, Min: 10, Max: 1000,
		MinMessage: "Please describe your typical eating patterns",
		text:       func(r *Record) *string { return &r.TypicalEating },
	},
	{
		Name: "openToTrackingFood", Label: "Open to Tracking Food", Section: sectionHealth,
		Prompt: "Are you open to tracking your food / calories / macros later on?",
		Kind:   KindSingleChoice, Page: 3, Options: openToTrackingOptions,
		text: func(r *Record) *string { return &r.OpenToTrackingFood },
	},
	{
		Name: "currentlyTrackingFood", Label: "Currently Tracking Food", Section: sectionHealth,
		Prompt: "Do you currently track your food / calories / macros?",
		Kind:   KindSingleChoice, Page: 3, Options: currentlyTrackingOpts,
		text: func(r *Record) *string { return &r.CurrentlyTrackingFood },
	},
	{
		Name: "dietaryNeeds", Label: "Dietary Needs", Section: sectionHealth,
		Prompt: "Any food preferences, dislikes, or dietary needs I should know about?",
		Kind:   KindLongText, Page: 3, Min: 2, Max: 1000,
		MinMessage: "Please describe your dietary needs",
		text:       func(r *Record) *string { return &r.DietaryNeeds },
	},
	{
		Name: "eatingOutFrequency", Label: "Eating Out Frequency", Section: sectionHealth,
		Prompt: "How many days per week do you eat out or order delivery food?",
		Kind:   KindSingleChoice, Page: 3, Options: eatingOutOptions,
		text: func(r *Record) *string { return &r.EatingOutFrequency },
	},
	{
		Name: "waterIntake", Label: "Water Intake", Prompt: "How much water do you drink daily (approximation)?", Section: sectionHealth,
		Kind: KindSingleChoice, Page: 3, Options: waterIntakeOptions,
		text: func(r *Record) *string { return &r.WaterIntake },
	},
	{
		Name: "sleepHours", Label: "Sleep Hours", Section: sectionHealth,
		Prompt: "On average, how many hours of sleep do you get per night?",
		Kind:   KindSingleChoice, Page: 3, Options: sleepHoursOptions,
		text: func(r *Record) *string { return &r.SleepHours },
	},
	{
		Name: "sleepQuality", Label: "Sleep Quality", Prompt: "What's your sleep quality like?", Section: sectionHealth,
		Kind: KindSingleChoice, Page: 3, Options: sleepQualityOptions,
		text: func(r *Record) *string { return &r.SleepQuality },
	},
	{
		Name: "stressLevel", Label: "Stress Level", Prompt: "What's your stress level like on a daily basis?", Section: sectionHealth,
		Kind: KindInteger, Page: 3, Min: 1, Max: 10,
		number: func(r *Record) *Number { return &r.StressLevel },
	},
	{
		Name: "travelSchedule", Label: "Travel Schedule", Section: sectionHealth,
		Prompt: "Do you travel often or live on an inconsistent schedule?",
		Kind:   KindSingleChoice, Page: 3, Options: travelScheduleOptions,
		text: func(r *Record) *string { return &r.TravelSchedule },
	},

	// Page 4
	{
		Name: "coachingType", Label: "Coaching Type", Prompt: "What type of coaching are you interested in?", Section: sectionProgram,
		Kind: KindSingleChoice, Page: 4, Options: coachingTypeOptions,
		text: func(r *Record) *string { return &r.CoachingType },
	},
	{
		Name: "startTimeline", Label: "Start Timeline", Section: sectionProgram,
		Prompt: "If we're a great fit, are you looking to start coaching:",
		Kind:   KindSingleChoice, Page: 4, Options: startTimelineOptions,
		text: func(r *Record) *string { return &r.StartTimeline },
	},
	{
		Name: "additionalNotes", Label: "Additional Notes", Section: sectionProgram,
		Prompt: "Is there anything else you want me to know before our consultation?",
		Kind:   KindLongText, Page: 4, Max: 1000, Optional: true,
		text: func(r *Record) *string { return &r.AdditionalNotes },
	},
})
