package services

import (
	"strings"

	"github.com/el-ostaa/ostaa-api/models"
)

// RequestView selects one half of the dashboard partition
type RequestView string

const (
	ViewActive  RequestView = "active"
	ViewArchive RequestView = "archive"
)

// ParseRequestView maps a query value to a view, defaulting to active
func ParseRequestView(v string) (RequestView, bool) {
	switch RequestView(v) {
	case "", ViewActive:
		return ViewActive, true
	case ViewArchive:
		return ViewArchive, true
	}
	return "", false
}

// Includes reports whether a request with status s belongs to the view
func (v RequestView) Includes(s models.RequestStatus) bool {
	if v == ViewArchive {
		return !s.IsActive()
	}
	return s.IsActive()
}

// PartitionRequests splits requests into active and archive, keeping order
func PartitionRequests(requests []models.ServiceRequest) (active, archive []models.ServiceRequest) {
	active = make([]models.ServiceRequest, 0)
	archive = make([]models.ServiceRequest, 0)
	for _, r := range requests {
		if r.Status.IsActive() {
			active = append(active, r)
		} else {
			archive = append(archive, r)
		}
	}
	return active, archive
}

// MatchesQuery is a case-sensitive substring match on customer name or id.
// An empty query matches everything.
func MatchesQuery(r models.ServiceRequest, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(r.CustomerName, query) || strings.Contains(r.ID, query)
}

// FilterRequests keeps the requests in view that match query, keeping order
func FilterRequests(requests []models.ServiceRequest, view RequestView, query string) []models.ServiceRequest {
	out := make([]models.ServiceRequest, 0, len(requests))
	for _, r := range requests {
		if view.Includes(r.Status) && MatchesQuery(r, query) {
			out = append(out, r)
		}
	}
	return out
}
