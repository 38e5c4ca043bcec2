package notify

import (
	"fmt"
	"html"
	"time"
)

// Email bodies follow the HelpDeskPro house style: a branded header, a
// highlighted detail block, a sign-off. User-supplied text is escaped.

const emailFooter = `<p style="color:#6b7280;font-size:14px;">Regards,<br><strong>The HelpDeskPro Team</strong></p>`

func wrap(body string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:30px;">
<h1 style="color:#2563eb;font-size:28px;">HelpDeskPro</h1>
%s
%s
</div>`, body, emailFooter)
}

// TicketCreatedEmail confirms a new ticket to its owner.
func TicketCreatedEmail(to, title, ticketID string) Email {
	body := fmt.Sprintf(`<h2 style="color:#2563eb;">Ticket Created</h2>
<p>Your support ticket has been created. We will keep you posted on its progress.</p>
<div style="background:#eff6ff;padding:20px;border-radius:8px;">
<p><strong>Title:</strong> %s</p>
<p><strong>Ticket ID:</strong> %s</p>
</div>`, html.EscapeString(title), html.EscapeString(ticketID))
	return Email{
		To:      to,
		Subject: "Ticket Created - HelpDeskPro",
		HTML:    wrap(body),
	}
}

// AgentReplyEmail tells the ticket owner an agent responded.
func AgentReplyEmail(to, title, message string) Email {
	body := fmt.Sprintf(`<h2 style="color:#2563eb;">New Response on Your Ticket</h2>
<p>You have received a new response from our support team:</p>
<div style="background:#f9fafb;padding:20px;border-radius:8px;border-left:4px solid #2563eb;">
<p><strong>Ticket:</strong> %s</p>
<p>%s</p>
</div>`, html.EscapeString(title), html.EscapeString(message))
	return Email{
		To:      to,
		Subject: "New Response on Your Ticket - HelpDeskPro",
		HTML:    wrap(body),
	}
}

// TicketClosedEmail tells the owner their ticket was closed.
func TicketClosedEmail(to, title string) Email {
	body := fmt.Sprintf(`<h2 style="color:#10b981;">Ticket Closed</h2>
<p>Your ticket has been closed by our support team.</p>
<div style="background:#ecfdf5;padding:20px;border-radius:8px;">
<p><strong>Title:</strong> %s</p>
</div>
<p>If you need further help, feel free to open a new ticket.</p>`, html.EscapeString(title))
	return Email{
		To:      to,
		Subject: "Ticket Closed - HelpDeskPro",
		HTML:    wrap(body),
	}
}

// StaleTicketEmail reminds an agent about an untouched assigned ticket.
func StaleTicketEmail(to, agentName, title, status, priority string, updatedAt time.Time) Email {
	body := fmt.Sprintf(`<h2 style="color:#f59e0b;">Reminder: Pending Ticket</h2>
<p>Hi %s, you have a ticket awaiting a response:</p>
<div style="background:#fef3c7;padding:15px;border-radius:5px;border-left:4px solid #f59e0b;">
<p><strong>Title:</strong> %s</p>
<p><strong>Status:</strong> %s</p>
<p><strong>Priority:</strong> %s</p>
<p><strong>Last update:</strong> %s</p>
</div>
<p>Please review and respond as soon as possible.</p>`,
		html.EscapeString(agentName),
		html.EscapeString(title),
		html.EscapeString(status),
		html.EscapeString(priority),
		updatedAt.Format(time.RFC1123),
	)
	return Email{
		To:      to,
		Subject: fmt.Sprintf("Reminder: Pending Ticket - %s", title),
		HTML:    wrap(body),
	}
}
