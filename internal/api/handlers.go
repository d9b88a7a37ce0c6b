package api

import (
	"github.com/gofiber/fiber/v2"

	"supplycraft/internal/game"
	"supplycraft/internal/sim"
)

type startRequest struct {
	Rounds       int    `json:"rounds"`
	DemandMethod string `json:"demand_method"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type orderRequest struct {
	SessionID     string `json:"session_id"`
	OrderQuantity int    `json:"order_quantity"`
}

type negotiateRequest struct {
	SessionID      string  `json:"session_id"`
	WholesalePrice float64 `json:"wholesale_price"`
	BuybackPrice   float64 `json:"buyback_price"`
	CapType        string  `json:"cap_type"`
	CapValue       float64 `json:"cap_value"`
	Length         int     `json:"length"`
	ContractType   string  `json:"contract_type"`
	RevenueShare   float64 `json:"revenue_share"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type draftRequest struct {
	SessionID string `json:"session_id"`
	Accept    bool   `json:"accept"`
}

func statePayload(id string, st *game.State) fiber.Map {
	return fiber.Map{
		"session_id": id,
		"phase":      st.Phase(),
		"game_over":  st.GameOver(),
		"state":      st,
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// handleConfig reports the economic environment and negotiation rules
// so the client can render forms with the right bounds.
func (s *Server) handleConfig(c *fiber.Ctx) error {
	history := s.svc.History()

	summary := fiber.Map{"count": len(history)}
	if len(history) > 0 {
		min, max, sum := history[0], history[0], 0
		for _, d := range history {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
			sum += d
		}
		summary["min"] = min
		summary["max"] = max
		summary["mean"] = float64(sum) / float64(len(history))
		sample := history
		if len(sample) > 10 {
			sample = sample[:10]
		}
		summary["sample"] = sample
	}

	return c.JSON(fiber.Map{
		"economic_params": s.svc.Params(),
		"history_summary": summary,
		"negotiation":     s.svc.Rules(),
	})
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	id, st, err := s.svc.StartGame(req.Rounds, sim.DemandMethod(req.DemandMethod))
	if err != nil {
		return err
	}
	return c.JSON(statePayload(id, st))
}

func (s *Server) handleState(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	st, err := s.svc.GetState(req.SessionID)
	if err != nil {
		return err
	}
	return c.JSON(statePayload(req.SessionID, st))
}

func (s *Server) handleOrder(c *fiber.Ctx) error {
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	out, st, err := s.svc.PlaceOrder(req.SessionID, req.OrderQuantity)
	if err != nil {
		return err
	}
	resp := statePayload(req.SessionID, st)
	resp["round_output"] = out
	return c.JSON(resp)
}

func (s *Server) handleNegotiate(c *fiber.Ctx) error {
	var req negotiateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	proposal := sim.Contract{
		WholesalePrice: req.WholesalePrice,
		BuybackPrice:   req.BuybackPrice,
		CapType:        sim.CapType(req.CapType),
		CapValue:       req.CapValue,
		Length:         req.Length,
		ContractType:   sim.ContractType(req.ContractType),
		RevenueShare:   req.RevenueShare,
	}

	ev, st, err := s.svc.SubmitProposal(c.Context(), req.SessionID, proposal)
	if err != nil {
		return err
	}
	resp := statePayload(req.SessionID, st)
	resp["decision"] = ev.Decision
	resp["ai_message"] = ev.Message
	return c.JSON(resp)
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message must not be empty")
	}

	reply, st, err := s.svc.Chat(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return err
	}
	resp := statePayload(req.SessionID, st)
	resp["supplier_message"] = reply.Message
	resp["draft_contract"] = st.Draft
	resp["negotiation_complete"] = reply.Complete
	return c.JSON(resp)
}

func (s *Server) handleDraft(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	st, err := s.svc.ResolveDraft(req.SessionID, req.Accept)
	if err != nil {
		return err
	}
	return c.JSON(statePayload(req.SessionID, st))
}

func (s *Server) handleEndEarly(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	st, err := s.svc.EndEarly(req.SessionID)
	if err != nil {
		return err
	}
	resp := statePayload(req.SessionID, st)
	resp["message"] = "Game ended early. Summary is now available."
	return c.JSON(resp)
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	id := c.Query("session_id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	sum, err := s.svc.Summarize(id)
	if err != nil {
		return err
	}
	return c.JSON(sum)
}
