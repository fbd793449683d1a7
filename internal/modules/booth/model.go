// README: Booth and queue ticket records.
package booth

import (
	"time"

	"ridehail/internal/types"
)

const (
	Collection       = "booth"
	TicketCollection = "queueticket"
)

type Booth struct {
	ID         types.ID       `json:"id"`
	Name       string         `json:"name"`
	Location   types.Location `json:"location"`
	QueueCount int64          `json:"queue_count"`
}

// QueueTicket is an immutable issuance record.
type QueueTicket struct {
	ID       types.ID  `json:"id"`
	BoothID  types.ID  `json:"booth_id"`
	Number   int64     `json:"number"`
	IssuedAt time.Time `json:"issued_at"`
	Phone    *string   `json:"phone"`
}

func sampleBooths() []Booth {
	return []Booth{
		{Name: "MG Road Metro", Location: types.NamedLocation("MG Road", 12.975, 77.605)},
		{Name: "Majestic Bus Stand", Location: types.NamedLocation("Majestic", 12.978, 77.572)},
	}
}
