package dialogue

import (
	"fmt"
	"time"

	"musetix/internal/tickets"
)

func mainMenuOptions() []Option {
	return []Option{
		{Label: "Book Tickets", Action: ActionBookTickets},
		{Label: "Check Ticket Prices", Action: ActionCheckPrices},
		{Label: "Museum Information", Action: ActionMuseumInfo},
		{Label: "Special Exhibitions", Action: ActionExhibitions},
		{Label: "Guided Tours", Action: ActionGuidedTours},
		{Label: "Exit Chat", Action: ActionExit},
	}
}

func ticketOptions() []Option {
	catalog := tickets.Catalog()
	options := make([]Option, 0, len(catalog))
	for _, entry := range catalog {
		options = append(options, Option{
			Label:      fmt.Sprintf("%s - Rs. %d", entry.Type, entry.Price),
			Subtext:    fmt.Sprintf("%s | %s", entry.AgeRange, entry.Description),
			Action:     ActionSelectTicket,
			TicketType: entry.Type,
		})
	}
	return options
}

func dateOptions() []Option {
	return []Option{
		{Label: "Today", Action: ActionSelectDate, DateChoice: "today"},
		{Label: "Tomorrow", Action: ActionSelectDate, DateChoice: "tomorrow"},
	}
}

func quantityOptions() []Option {
	options := make([]Option, 0, 5)
	for q := 1; q <= 4; q++ {
		options = append(options, Option{
			Label:    fmt.Sprintf("%d", q),
			Action:   ActionSelectQuantity,
			Quantity: q,
		})
	}
	options = append(options, Option{Label: "5+", Action: ActionCustomQuantity})
	return options
}

func retryOptions() []Option {
	return []Option{
		{Label: "Try Again", Action: ActionBookTickets},
		{Label: "Main Menu", Action: ActionMainMenu},
	}
}

func ticketSelectPrompt() Message {
	return Message{
		Content: "Please select a ticket type:",
		Options: ticketOptions(),
	}
}

func dateSelectPrompt(entry tickets.CatalogEntry) Message {
	return Message{
		Content: fmt.Sprintf(
			"%s Ticket\n- Price: Rs. %d\n- %s\n- Age Range: %s\n\nWhen would you like to visit? Pick an option or type a date as DD/MM/YYYY.",
			entry.Type, entry.Price, entry.Description, entry.AgeRange,
		),
		Options: dateOptions(),
	}
}

func quantitySelectPrompt(visit time.Time) Message {
	return Message{
		Content: fmt.Sprintf(
			"Visiting on %s. How many tickets would you like?",
			visit.Format("Monday, January 2, 2006"),
		),
		Options: quantityOptions(),
	}
}

func emailPrompt(draft BookingDraft) Message {
	total := draft.UnitPrice * int64(draft.Quantity)
	return Message{
		Content: fmt.Sprintf(
			"Please enter your email address to proceed with booking:\n%d x %s Ticket\n- Unit Price: Rs. %d\n- Total: Rs. %d\n- %s",
			draft.Quantity, draft.TicketType, draft.UnitPrice, total, draft.Description,
		),
	}
}

func priceListMessage() Message {
	catalog := tickets.Catalog()
	options := make([]Option, 0, len(catalog)+1)
	for _, entry := range catalog {
		options = append(options, Option{
			Label:   fmt.Sprintf("%s - Rs. %d", entry.Type, entry.Price),
			Subtext: fmt.Sprintf("%s | %s", entry.AgeRange, entry.Description),
			Action:  ActionMainMenu,
		})
	}
	return Message{Content: "Current Ticket Prices:", Options: options}
}

func museumInfoMessage() Message {
	return Message{
		Content: "Museum Information:\n\n" +
			"- Opening Hours: 9:00 AM - 6:00 PM\n" +
			"- Location: 123 Museum Avenue, Art District\n" +
			"- Contact: +1 (555) 123-4567\n" +
			"- Email: info@museum.com\n\n" +
			"We are open all days except major holidays.",
		Options: []Option{{Label: "Back to Main Menu", Action: ActionMainMenu}},
	}
}

func exhibitionsMessage() Message {
	return Message{
		Content: "Current Special Exhibitions:\n\n" +
			"1. Renaissance Masterpieces\n- Duration: March 1 - June 30\n- Additional Fee: Rs. 1000\n\n" +
			"2. Contemporary Art Showcase\n- Duration: April 15 - August 15\n- Additional Fee: Rs. 800\n\n" +
			"Book tickets to include special exhibitions!",
		Options: []Option{
			{Label: "Book Tickets", Action: ActionBookTickets},
			{Label: "Main Menu", Action: ActionMainMenu},
		},
	}
}

func guidedToursMessage() Message {
	return Message{
		Content: "Available Guided Tours:\n\n" +
			"1. Art Through Ages\n- Duration: 2 hours\n- Price: Rs. 1500\n- Times: 10:00 AM, 2:00 PM\n\n" +
			"2. Modern Masters\n- Duration: 1.5 hours\n- Price: Rs. 1200\n- Times: 11:30 AM, 3:30 PM\n\n" +
			"Would you like to book a tour?",
		Options: []Option{
			{Label: "Book a Tour", Action: ActionBookTickets},
			{Label: "Main Menu", Action: ActionMainMenu},
		},
	}
}
