package entities

// EmailDay is one day section of the availability digest. Only days and
// courts with open windows are included.
type EmailDay struct {
	Label  string
	Courts []CourtAvailability
}

// AvailabilityEmailData feeds the email template and the plain-text body.
type AvailabilityEmailData struct {
	Days []EmailDay
}
