// Handler wiring.
//
// Handlers groups the HTTP endpoints for auth, tickets, and health. It
// depends on abstract service interfaces to keep transport concerns
// separate from business logic.
package handlers

// Handlers bundles the dependencies of all HTTP endpoints.
type Handlers struct {
	authSvc   AuthService
	ticketSvc TicketService
	store     HealthChecker
	uploads   AttachmentSaver
}

// New constructs a Handlers instance bound to the given collaborators.
func New(authSvc AuthService, ticketSvc TicketService, store HealthChecker, uploads AttachmentSaver) *Handlers {
	return &Handlers{
		authSvc:   authSvc,
		ticketSvc: ticketSvc,
		store:     store,
		uploads:   uploads,
	}
}
