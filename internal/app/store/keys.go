// Package store holds the query keys shared by the API-backed stores.
// Keys name backend resources; writes invalidate the keys they affect.
package store

import "github.com/dalemusser/clubsphere/internal/app/system/querycache"

var (
	KeyAllUsers      = querycache.K("allUsers")
	KeyAdminStats    = querycache.K("adminStats")
	KeyManagerStats  = querycache.K("managerStats")
	KeyClubs         = querycache.K("clubs")
	KeyAllClubsAdmin = querycache.K("allClubsAdmin")
	KeyEvents        = querycache.K("events")
	KeyMyMemberships = querycache.K("myMemberships")
	KeyMyRegs        = querycache.K("myRegistrations")
	KeyMyPayments    = querycache.K("myPayments")
	KeyAllPayments   = querycache.K("allPayments")
)

// KeyClub is a single club.
func KeyClub(id string) querycache.Key { return querycache.K("club", id) }

// KeyEvent is a single event.
func KeyEvent(id string) querycache.Key { return querycache.K("event", id) }

// KeyMembership is the membership check for a club; extended by email.
func KeyMembership(clubID string) querycache.Key { return querycache.K("membership", clubID) }

// KeyClubMembers is the member list of a club.
func KeyClubMembers(clubID string) querycache.Key { return querycache.K("clubMembers", clubID) }

// KeyRegistration is the registration check for an event; extended by email.
func KeyRegistration(eventID string) querycache.Key {
	return querycache.K("eventRegistration", eventID)
}

// KeyEventRegistrations is the attendee list of an event.
func KeyEventRegistrations(eventID string) querycache.Key {
	return querycache.K("eventRegistrations", eventID)
}
