package dochub

import (
	"encoding/json"
	"log"

	"collabdocs/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// StartBackplaneListener consumes the shared redis broadcast channel and
// feeds every event into the broker loop for local delivery. This is how
// broadcasts cross process boundaries: every process publishes, every
// process (including the publisher) delivers to its own room members.
func (b *BrokerService) StartBackplaneListener(sub *redis.PubSub) {
	go func() {
		defer sub.Close()

		for msg := range sub.Channel() {
			var ev models.ServerEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error unmarshalling backplane message: %v", err)
				continue
			}
			b.BackplaneCh <- ev
		}
	}()
}
