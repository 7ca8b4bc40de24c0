package pricing

import (
	"fmt"
	"time"
)

// Orders placed before this local hour qualify for same-day delivery.
const deliveryCutoffHour = 10

const deliveryCutoffLabel = "10:00 AM"

type DeliveryInfo struct {
	Region         string `json:"region"`
	AvailableToday bool   `json:"available_today"`
	Message        string `json:"message"`
	CutoffTime     string `json:"cutoff_time"`
}

// GetDeliveryInfo reports same-day availability for the region at the
// current wall-clock time.
func (c *Catalog) GetDeliveryInfo(region string) DeliveryInfo {
	return c.GetDeliveryInfoAt(region, time.Now())
}

// GetDeliveryInfoAt is GetDeliveryInfo against an explicit instant. The
// instant is interpreted in the region's timezone, so any clock source
// works. Unknown regions never error; they just aren't deliverable.
func (c *Catalog) GetDeliveryInfoAt(region string, at time.Time) DeliveryInfo {
	r, ok := c.regions[region]
	if !ok {
		return DeliveryInfo{
			Region:         region,
			AvailableToday: false,
			Message:        "Delivery not available",
			CutoffTime:     "N/A",
		}
	}

	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := at.In(loc)

	if local.Hour() < deliveryCutoffHour {
		return DeliveryInfo{
			Region:         region,
			AvailableToday: true,
			Message:        fmt.Sprintf("Order by %s for same-day delivery", deliveryCutoffLabel),
			CutoffTime:     deliveryCutoffLabel,
		}
	}
	return DeliveryInfo{
		Region:         region,
		AvailableToday: false,
		Message:        fmt.Sprintf("Next available delivery: Tomorrow (order by %s)", deliveryCutoffLabel),
		CutoffTime:     deliveryCutoffLabel,
	}
}
