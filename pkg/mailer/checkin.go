package mailer

import "fmt"

// CheckinSubject is the subject line for low-mood check-in notes.
const CheckinSubject = "A gentle note from your garden"

// CheckinBody renders the plain-text body of the check-in note sent when an
// echo comes back severely low.
func CheckinBody(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`Hi %s,

Your garden noticed today felt heavy. That is not a failure - it is
information, and you do not have to carry it alone.

When you have a quiet moment, your garden is holding an affirmation for you.
Open EchoBloom whenever you are ready. No rush.

With warmth,
EchoBloom`, name)
}
