package push

import (
	"github.com/pusher/pusher-http-go/v5"
)

// PusherPublisher forwards events to the hosted Pusher service
type PusherPublisher struct {
	client *pusher.Client
}

func NewPusherPublisher(appID, key, secret, cluster string) *PusherPublisher {
	return &PusherPublisher{
		client: &pusher.Client{
			AppID:   appID,
			Key:     key,
			Secret:  secret,
			Cluster: cluster,
			Secure:  true,
		},
	}
}

func (p *PusherPublisher) Trigger(channel, event string, data interface{}) error {
	return p.client.Trigger(channel, event, data)
}
