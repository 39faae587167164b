package http

import (
	"net/http"

	"github.com/Flarenzy/netreconciler/internal/domain"
)

// @Summary Health check
// @Tags health
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// @Summary Readiness check
// @Tags health
// @Success 200 {string} string "ready"
// @Failure 503 {string} string "store unavailable"
// @Router /readyz [get]
func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.health.Ping(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "store ping failed", "err", err.Error())
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// @Summary List networks
// @Tags networks
// @Produce json
// @Success 200 {array} NetworkResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/networks [get]
func (a *API) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	networks, err := a.service.ListNetworks(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "listing networks", "err", err.Error())
		a.respond(w, r, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	a.respond(w, r, http.StatusOK, networksToResponse(networks))
}

// @Summary Create network
// @Tags networks
// @Accept json
// @Produce json
// @Param network body CreateNetworkRequest true "Network payload"
// @Success 201 {object} NetworkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/networks [post]
func (a *API) handleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := decode[CreateNetworkRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.Logger.DebugContext(ctx, "unmarshaling network from request", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	network, err := a.service.CreateNetwork(ctx, req.toInput())
	if err != nil {
		a.respondError(w, r, err, "network not found")
		return
	}
	a.respond(w, r, http.StatusCreated, networkToResponse(network))
}

// @Summary List subnets
// @Tags subnets
// @Produce json
// @Success 200 {array} SubnetResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subnets [get]
func (a *API) handleListSubnets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subnets, err := a.service.ListSubnets(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "listing subnets", "err", err.Error())
		a.respond(w, r, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	a.respond(w, r, http.StatusOK, subnetsToResponse(subnets))
}

// @Summary Create subnet
// @Tags subnets
// @Accept json
// @Produce json
// @Param subnet body CreateSubnetRequest true "Subnet payload"
// @Success 201 {object} SubnetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subnets [post]
func (a *API) handleCreateSubnet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := decode[CreateSubnetRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.Logger.DebugContext(ctx, "unmarshaling subnet from request", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	subnet, err := a.service.CreateSubnet(ctx, req.toInput())
	if err != nil {
		a.respondError(w, r, err, "network not found")
		return
	}
	a.respond(w, r, http.StatusCreated, subnetToResponse(subnet))
}

// @Summary Get subnet by ID
// @Tags subnets
// @Produce json
// @Param id path int true "Subnet ID"
// @Success 200 {object} SubnetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subnets/{id} [get]
func (a *API) handleGetSubnetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.Logger.DebugContext(r.Context(), "unable to convert string id to int64", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	subnet, err := a.service.GetSubnet(r.Context(), id)
	if err != nil {
		a.respondError(w, r, err, "subnet not found")
		return
	}
	a.respond(w, r, http.StatusOK, subnetToResponse(subnet))
}

// @Summary Delete subnet
// @Tags subnets
// @Param id path int true "Subnet ID of the subnet to delete."
// @Success 204 "No content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subnets/{id} [delete]
func (a *API) handleDeleteSubnetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.Logger.DebugContext(r.Context(), "unable to convert string id to int64", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	if err := a.service.DeleteSubnet(r.Context(), id); err != nil {
		a.respondError(w, r, err, "subnet not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary List ports of a subnet
// @Tags ports
// @Produce json
// @Param id path int true "Subnet ID"
// @Success 200 {array} PortResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subnets/{id}/ports [get]
func (a *API) handleListPorts(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.Logger.DebugContext(r.Context(), "unable to convert string id to int64", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	ports, err := a.service.ListPorts(r.Context(), id)
	if err != nil {
		a.respondError(w, r, err, "subnet not found")
		return
	}
	a.respond(w, r, http.StatusOK, portsToResponse(ports))
}

// @Summary Delete port
// @Description Deleting the record releases its address; the next reconciliation removes it from the backend.
// @Tags ports
// @Param id path int true "Subnet ID"
// @Param portID path string true "Port ID"
// @Success 204 "No content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subnets/{id}/ports/{portID} [delete]
func (a *API) handleDeletePort(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.Logger.DebugContext(r.Context(), "unable to convert string id to int64", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	portID := domain.PortID(r.PathValue("portID"))
	if err := a.service.DeletePort(r.Context(), id, portID); err != nil {
		a.respondError(w, r, err, "port not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Register node
// @Description Registers a node; the reconciler allocates its port on the next iteration.
// @Tags nodes
// @Accept json
// @Produce json
// @Param node body CreateNodeRequest true "Node payload"
// @Success 201 {object} NodeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/nodes [post]
func (a *API) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := decode[CreateNodeRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.Logger.DebugContext(ctx, "unmarshaling node from request", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	node, err := a.service.CreateNode(ctx, req.toInput())
	if err != nil {
		a.respondError(w, r, err, "node not found")
		return
	}
	a.respond(w, r, http.StatusCreated, nodeToResponse(node))
}

// @Summary Get default network of a node
// @Tags nodes
// @Produce json
// @Param id path int true "Node ID"
// @Success 200 {object} domain.DefaultNetwork
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/nodes/{id}/default-network [get]
func (a *API) handleGetDefaultNetwork(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.Logger.DebugContext(r.Context(), "unable to convert string id to int64", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return
	}

	dn, err := a.service.GetDefaultNetwork(r.Context(), id)
	if err != nil {
		a.respondError(w, r, err, "default network not found")
		return
	}
	a.respond(w, r, http.StatusOK, dn)
}
