package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"Loom/internal/core/posts"
	"Loom/internal/core/replies"
)

// InteractionServiceBindings returns the four queue bindings the
// user-interaction service consumes.
func InteractionServiceBindings(replySvc replies.Service) []Binding {
	return []Binding{
		{
			Queue:      QueuePostDeletedInteraction,
			Exchange:   PostExchange,
			RoutingKey: RoutePostDeleted,
			Handler: func(ctx context.Context, body []byte) error {
				event, err := decode[PostEvent](body)
				if err != nil {
					return err
				}
				return replySvc.HandlePostDeleted(ctx, event.ID)
			},
		},
		{
			Queue:      QueuePostCreatedInteraction,
			Exchange:   PostExchange,
			RoutingKey: RoutePostCreated,
			Handler: func(ctx context.Context, body []byte) error {
				event, err := decode[PostEvent](body)
				if err != nil {
					return err
				}
				return replySvc.HandlePostCreated(ctx, event.ID, event.UserID)
			},
		},
		{
			Queue:      QueueUserCreatedInteraction,
			Exchange:   UserExchange,
			RoutingKey: RouteUserCreated,
			Handler: func(ctx context.Context, body []byte) error {
				event, err := decode[UserEvent](body)
				if err != nil {
					return err
				}
				return replySvc.HandleUserCreated(ctx, event.ID)
			},
		},
		{
			Queue:      QueueUserDeletedInteraction,
			Exchange:   UserExchange,
			RoutingKey: RouteUserDeleted,
			Handler: func(ctx context.Context, body []byte) error {
				event, err := decode[UserEvent](body)
				if err != nil {
					return err
				}
				return replySvc.HandleUserDeleted(ctx, event.ID)
			},
		},
	}
}

// MediaServiceBindings returns the two queue bindings the media service
// consumes.
func MediaServiceBindings(postSvc posts.Service) []Binding {
	return []Binding{
		{
			Queue:      QueueUserCreatedMedia,
			Exchange:   UserExchange,
			RoutingKey: RouteUserCreated,
			Handler: func(ctx context.Context, body []byte) error {
				event, err := decode[UserEvent](body)
				if err != nil {
					return err
				}
				return postSvc.HandleUserCreated(ctx, event.ID)
			},
		},
		{
			Queue:      QueueUserDeletedMedia,
			Exchange:   UserExchange,
			RoutingKey: RouteUserDeleted,
			Handler: func(ctx context.Context, body []byte) error {
				event, err := decode[UserEvent](body)
				if err != nil {
					return err
				}
				return postSvc.HandleUserDeleted(ctx, event.ID)
			},
		},
	}
}

func decode[T any](body []byte) (T, error) {
	var event T
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return event, nil
}
