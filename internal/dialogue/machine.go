package dialogue

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"musetix/internal/tickets"
)

const (
	welcomeText      = "Welcome to the Museum Assistant! How can I help you today?"
	menuText         = "What else would you like to know?"
	goodbyeText      = "Thank you for visiting! Have a great day!"
	minQuantity      = 1
	maxQuantity      = 10
	visitDateLayout  = "02/01/2006"
	defaultVisitHour = 10
)

// stepActions is the per-step table of valid actions. Anything not listed
// re-renders the current step with a corrective message.
var stepActions = map[Step]map[ActionKind]bool{
	StepMain: {
		ActionBookTickets: true, ActionCheckPrices: true, ActionMuseumInfo: true,
		ActionExhibitions: true, ActionGuidedTours: true, ActionMainMenu: true, ActionExit: true,
	},
	StepTicketSelect: {
		ActionSelectTicket: true, ActionBookTickets: true, ActionMainMenu: true, ActionExit: true,
	},
	StepDateSelect: {
		ActionSelectDate: true, ActionSubmitText: true, ActionMainMenu: true, ActionExit: true,
	},
	StepQuantitySelect: {
		ActionSelectQuantity: true, ActionCustomQuantity: true, ActionMainMenu: true, ActionExit: true,
	},
	StepCustomQuantity: {
		ActionSubmitText: true, ActionMainMenu: true, ActionExit: true,
	},
	StepEmailInput: {
		ActionSubmitText: true, ActionMainMenu: true, ActionExit: true,
	},
	StepAwaitingPayment: {
		ActionPaymentSucceeded: true, ActionPaymentFailed: true, ActionPaymentCancelled: true,
		ActionMainMenu: true, ActionExit: true,
	},
	StepDone: {
		ActionBookTickets: true, ActionMainMenu: true, ActionExit: true,
	},
}

// NewSession creates a fresh dialogue session at the main menu
func NewSession(now time.Time) Session {
	return Session{
		ID:        uuid.New(),
		Step:      StepMain,
		Messages:  []Message{{Role: RoleAssistant, Content: welcomeText, Options: mainMenuOptions()}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition applies one action to the session and returns the new session
// plus any requested effects. It is pure: no I/O, no clock reads beyond the
// supplied now, and the input session is not mutated. Invalid input never
// fails; it re-renders the current step with a corrective message so a valid
// next action always exists.
func Transition(s Session, act Action, now time.Time) (Session, []Effect) {
	next := s
	next.Messages = append([]Message(nil), s.Messages...)
	next.UpdatedAt = now

	if !stepActions[s.Step][act.Kind] {
		appendAssistant(&next, correctivePrompt(next.Step, next.Draft))
		return next, nil
	}

	// Exit and main-menu are valid from every step and always clear the draft
	switch act.Kind {
	case ActionExit:
		next.Step = StepMain
		next.Draft = BookingDraft{}
		appendAssistant(&next, Message{Content: goodbyeText, Options: mainMenuOptions()})
		return next, nil
	case ActionMainMenu:
		next.Step = StepMain
		next.Draft = BookingDraft{}
		appendAssistant(&next, Message{Content: menuText, Options: mainMenuOptions()})
		return next, nil
	}

	switch s.Step {
	case StepMain, StepDone:
		return transitionMain(next, act)
	case StepTicketSelect:
		return transitionTicketSelect(next, act)
	case StepDateSelect:
		return transitionDateSelect(next, act, now)
	case StepQuantitySelect:
		return transitionQuantitySelect(next, act)
	case StepCustomQuantity:
		return transitionCustomQuantity(next, act)
	case StepEmailInput:
		return transitionEmailInput(next, act)
	case StepAwaitingPayment:
		return transitionAwaitingPayment(next, act)
	}

	appendAssistant(&next, correctivePrompt(next.Step, next.Draft))
	return next, nil
}

func transitionMain(next Session, act Action) (Session, []Effect) {
	switch act.Kind {
	case ActionBookTickets:
		next.Step = StepTicketSelect
		appendAssistant(&next, ticketSelectPrompt())
	case ActionCheckPrices:
		appendAssistant(&next, priceListMessage())
	case ActionMuseumInfo:
		appendAssistant(&next, museumInfoMessage())
	case ActionExhibitions:
		appendAssistant(&next, exhibitionsMessage())
	case ActionGuidedTours:
		appendAssistant(&next, guidedToursMessage())
	}
	return next, nil
}

func transitionTicketSelect(next Session, act Action) (Session, []Effect) {
	if act.Kind == ActionBookTickets {
		appendAssistant(&next, ticketSelectPrompt())
		return next, nil
	}

	entry, ok := tickets.Lookup(act.TicketType)
	if !ok {
		appendAssistant(&next, Message{
			Content: "That ticket type is not available. Please select one of the options below.",
			Options: ticketOptions(),
		})
		return next, nil
	}

	next.Draft.TicketType = entry.Type
	next.Draft.UnitPrice = entry.Price
	next.Draft.AgeRange = entry.AgeRange
	next.Draft.Description = entry.Description
	next.Step = StepDateSelect
	appendAssistant(&next, dateSelectPrompt(entry))
	return next, nil
}

func transitionDateSelect(next Session, act Action, now time.Time) (Session, []Effect) {
	var visit time.Time
	switch act.Kind {
	case ActionSelectDate:
		switch act.DateChoice {
		case "today":
			visit = atVisitHour(now)
		case "tomorrow":
			visit = atVisitHour(now.AddDate(0, 0, 1))
		default:
			appendAssistant(&next, dateSelectPrompt(draftEntry(next.Draft)))
			return next, nil
		}
	case ActionSubmitText:
		appendUser(&next, act.Text)
		parsed, errMsg := parseVisitDate(act.Text, now)
		if errMsg != "" {
			appendAssistant(&next, Message{Content: errMsg, Options: dateOptions()})
			return next, nil
		}
		visit = parsed
	}

	next.Draft.VisitDate = &visit
	next.Step = StepQuantitySelect
	appendAssistant(&next, quantitySelectPrompt(visit))
	return next, nil
}

func transitionQuantitySelect(next Session, act Action) (Session, []Effect) {
	switch act.Kind {
	case ActionSelectQuantity:
		if act.Quantity < 1 || act.Quantity > 4 {
			appendAssistant(&next, quantitySelectPrompt(*next.Draft.VisitDate))
			return next, nil
		}
		next.Draft.Quantity = act.Quantity
		next.Step = StepEmailInput
		appendAssistant(&next, emailPrompt(next.Draft))
	case ActionCustomQuantity:
		next.Step = StepCustomQuantity
		appendAssistant(&next, Message{
			Content: fmt.Sprintf("How many tickets would you like? Enter a number between %d and %d.", minQuantity, maxQuantity),
		})
	}
	return next, nil
}

func transitionCustomQuantity(next Session, act Action) (Session, []Effect) {
	appendUser(&next, act.Text)

	quantity, err := strconv.Atoi(strings.TrimSpace(act.Text))
	if err != nil || quantity < minQuantity || quantity > maxQuantity {
		appendAssistant(&next, Message{
			Content: fmt.Sprintf("Please enter a whole number between %d and %d.", minQuantity, maxQuantity),
		})
		return next, nil
	}

	next.Draft.Quantity = quantity
	next.Step = StepEmailInput
	appendAssistant(&next, emailPrompt(next.Draft))
	return next, nil
}

func transitionEmailInput(next Session, act Action) (Session, []Effect) {
	appendUser(&next, act.Text)

	email := strings.TrimSpace(act.Text)
	if email == "" || !strings.Contains(email, "@") {
		appendAssistant(&next, Message{Content: "Please enter a valid email address."})
		return next, nil
	}

	next.Draft.Email = email
	next.Step = StepAwaitingPayment
	appendAssistant(&next, Message{Content: "Creating your order..."})
	return next, []Effect{{Kind: EffectCreateOrder, Draft: next.Draft}}
}

func transitionAwaitingPayment(next Session, act Action) (Session, []Effect) {
	switch act.Kind {
	case ActionPaymentSucceeded:
		email := next.Draft.Email
		next.Step = StepDone
		next.Draft = BookingDraft{}
		appendAssistant(&next, Message{
			Content: fmt.Sprintf("Payment successful! Your ticket has been sent to %s.", email),
			Options: []Option{{Label: "Return to Main Menu", Action: ActionMainMenu}},
		})
	case ActionPaymentFailed:
		next.Step = StepTicketSelect
		appendAssistant(&next, Message{
			Content: "Payment failed. Would you like to try again?",
			Options: retryOptions(),
		})
	case ActionPaymentCancelled:
		next.Step = StepTicketSelect
		appendAssistant(&next, Message{
			Content: "Payment cancelled. Would you like to try again?",
			Options: retryOptions(),
		})
	}
	return next, nil
}

func appendAssistant(s *Session, msg Message) {
	msg.Role = RoleAssistant
	s.Messages = append(s.Messages, msg)
}

func appendUser(s *Session, text string) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: text})
}

// parseVisitDate validates free-form DD/MM/YYYY input; the date must not be
// before today. Returns a corrective message instead of an error on failure.
func parseVisitDate(text string, now time.Time) (time.Time, string) {
	parsed, err := time.Parse(visitDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, "Please enter the date as DD/MM/YYYY, or pick one of the options."
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	visit := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), defaultVisitHour, 0, 0, 0, now.Location())
	if visit.Before(today) {
		return time.Time{}, "That date has already passed. Please choose today or a later date."
	}
	return visit, ""
}

func atVisitHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), defaultVisitHour, 0, 0, 0, t.Location())
}

func draftEntry(d BookingDraft) tickets.CatalogEntry {
	return tickets.CatalogEntry{
		Type:        d.TicketType,
		Price:       d.UnitPrice,
		AgeRange:    d.AgeRange,
		Description: d.Description,
	}
}

// correctivePrompt re-renders the current step after an action that is not
// valid for it, so the visitor always has a way forward.
func correctivePrompt(step Step, draft BookingDraft) Message {
	switch step {
	case StepTicketSelect:
		return ticketSelectPrompt()
	case StepDateSelect:
		return dateSelectPrompt(draftEntry(draft))
	case StepQuantitySelect:
		if draft.VisitDate != nil {
			return quantitySelectPrompt(*draft.VisitDate)
		}
	case StepCustomQuantity:
		return Message{Content: fmt.Sprintf("Please enter a whole number between %d and %d.", minQuantity, maxQuantity)}
	case StepEmailInput:
		return Message{Content: "Please enter a valid email address."}
	case StepAwaitingPayment:
		return Message{Content: "Your payment is still in progress. You can cancel and return to the main menu at any time.",
			Options: []Option{{Label: "Main Menu", Action: ActionMainMenu}}}
	}
	return Message{Content: menuText, Options: mainMenuOptions()}
}
