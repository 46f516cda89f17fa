package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"

	"fairdice/internal/dice"
	"fairdice/internal/fair"
	"fairdice/internal/monitoring"
)

// RoundAudit reads a match's revealed rounds back out of the audit trail;
// implemented by internal/store.
type RoundAudit interface {
	Rounds(matchID string) ([]RoundRecord, error)
}

func RegisterRoutes(r fiber.Router, service *Service, audit RoundAudit) {

	r.Post("/matches", func(c *fiber.Ctx) error {
		var body CreateMatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed body")
		}

		resp, err := service.Create(body.Dice)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	r.Post("/matches/:id/input", func(c *fiber.Ctx) error {
		var body InputRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed body")
		}

		ev, err := body.event()
		if err != nil {
			return httpError(err)
		}

		resp, err := service.Input(c.Params("id"), ev)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(resp)
	})

	// The replay surface for external auditors: every published HMAC/KEY
	// pair of a match, live or finished, in reveal order.
	r.Get("/matches/:id/rounds", func(c *fiber.Ctx) error {
		rounds, err := audit.Rounds(c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		if len(rounds) == 0 {
			return fiber.NewError(fiber.StatusNotFound, ErrMatchNotFound.Error())
		}
		return c.JSON(fiber.Map{
			"match_id": c.Params("id"),
			"rounds":   rounds,
		})
	})

	r.Get("/matches/:id", func(c *fiber.Ctx) error {
		resp, err := service.Get(c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(resp)
	})

	r.Post("/verify", func(c *fiber.Ctx) error {
		var body VerifyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed body")
		}

		valid := fair.Verify(body.Hmac, body.Key, body.Value)
		result := "valid"
		if !valid {
			result = "invalid"
		}
		monitoring.Verifications.WithLabelValues(result).Inc()

		return c.JSON(VerifyResponse{Valid: valid})
	})

	r.Get("/odds", func(c *fiber.Ctx) error {
		var specs []string
		for _, v := range c.Context().QueryArgs().PeekMulti("dice") {
			specs = append(specs, string(v))
		}

		set, err := dice.ParseSet(specs)
		if err != nil {
			return httpError(err)
		}

		m := dice.NewMatrix(set)
		return c.JSON(fiber.Map{
			"dice":  specs,
			"cells": jsonCells(m),
			"table": m.Render(),
		})
	})

	r.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(service.Stats())
	})
}

// jsonCells replaces the NaN diagonal with nulls, which JSON can carry.
func jsonCells(m dice.Matrix) [][]interface{} {
	out := make([][]interface{}, len(m.Cells))
	for i, row := range m.Cells {
		out[i] = make([]interface{}, len(row))
		for j, p := range row {
			if math.IsNaN(p) {
				out[i][j] = nil
			} else {
				out[i][j] = p
			}
		}
	}
	return out
}

func (r InputRequest) event() (Event, error) {
	switch r.Action {
	case "":
		if r.Number == nil {
			return nil, fmt.Errorf("%w: number or action required", ErrInvalidInput)
		}
		return NumberEvent{N: *r.Number}, nil
	case "help":
		return HelpEvent{}, nil
	case "cancel":
		return CancelEvent{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, r.Action)
	}
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrMatchOver):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, dice.ErrInvalidDieSpec),
		errors.Is(err, dice.ErrTooFewDice):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
