package memory

import (
	"context"
	"sort"
	"sync"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/contract"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is an in-memory backend used by tests and local development. It
// implements the same contracts as the GORM repositories over plain maps.
// FailWith injects a one-shot error on the next mutating call, for
// exercising retry behavior.
type Store struct {
	mu sync.Mutex

	members      map[uuid.UUID]*entity.PackMember
	messages     map[uuid.UUID]*entity.ChatMessage
	reactions    map[uuid.UUID]*entity.MessageReaction
	interactions map[uuid.UUID]*entity.Interaction
	locations    map[uuid.UUID]*entity.Location
	users        map[uuid.UUID]*entity.User
	sessions     map[uuid.UUID]*entity.ChatSession
	packEvents   map[uuid.UUID]*entity.PackEvent

	nextErr error
}

func NewStore() *Store {
	return &Store{
		members:      make(map[uuid.UUID]*entity.PackMember),
		messages:     make(map[uuid.UUID]*entity.ChatMessage),
		reactions:    make(map[uuid.UUID]*entity.MessageReaction),
		interactions: make(map[uuid.UUID]*entity.Interaction),
		locations:    make(map[uuid.UUID]*entity.Location),
		users:        make(map[uuid.UUID]*entity.User),
		sessions:     make(map[uuid.UUID]*entity.ChatSession),
		packEvents:   make(map[uuid.UUID]*entity.PackEvent),
	}
}

// FailWith makes the next mutating repository call return err once.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr = err
}

func (s *Store) takeErr() error {
	if s.nextErr != nil {
		err := s.nextErr
		s.nextErr = nil
		return err
	}
	return nil
}

func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.Id] = &cp
}

func (s *Store) AddLocation(l *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.locations[l.Id] = &cp
}

func (s *Store) AddSession(cs *entity.ChatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cs
	s.sessions[cs.Id] = &cp
}

func (s *Store) AddInteraction(i *entity.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *i
	s.interactions[i.Id] = &cp
}

// Factory hands out unit-of-work views over the shared store. No real
// transactions; Begin/Commit/Rollback are accepted as no-ops.
type Factory struct {
	store *Store
}

func NewFactory(store *Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &uow{store: f.store}
}

type uow struct {
	store *Store
}

func (u *uow) Begin(ctx context.Context) error { return nil }
func (u *uow) Commit() error                   { return nil }
func (u *uow) Rollback() error                 { return nil }

func (u *uow) UserRepository() contract.UserRepository             { return &userRepo{u.store} }
func (u *uow) DeviceTokenRepository() contract.DeviceTokenRepository {
	return &deviceTokenRepo{u.store}
}
func (u *uow) LocationRepository() contract.LocationRepository     { return &locationRepo{u.store} }
func (u *uow) PackMemberRepository() contract.PackMemberRepository { return &memberRepo{u.store} }
func (u *uow) ChatSessionRepository() contract.ChatSessionRepository {
	return &sessionRepo{u.store}
}
func (u *uow) ChatMessageRepository() contract.ChatMessageRepository {
	return &messageRepo{u.store}
}
func (u *uow) MessageReactionRepository() contract.MessageReactionRepository {
	return &reactionRepo{u.store}
}
func (u *uow) InteractionRepository() contract.InteractionRepository {
	return &interactionRepo{u.store}
}
func (u *uow) PackEventRepository() contract.PackEventRepository { return &eventRepo{u.store} }

// Member repository

type memberRepo struct{ store *Store }

func (r *memberRepo) Create(ctx context.Context, member *entity.PackMember) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	if member.Id == uuid.Nil {
		member.Id = uuid.New()
	}
	cp := *member
	r.store.members[member.Id] = &cp
	return nil
}

func (r *memberRepo) Update(ctx context.Context, member *entity.PackMember) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	cp := *member
	r.store.members[member.Id] = &cp
	return nil
}

func (r *memberRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PackMember, error) {
	members, err := r.FindAll(ctx, specs...)
	if err != nil || len(members) == 0 {
		return nil, err
	}
	return members[0], nil
}

func (r *memberRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PackMember, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.PackMember
	for _, m := range r.store.members {
		if matchMember(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *memberRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	members, err := r.FindAll(ctx, specs...)
	return int64(len(members)), err
}

func (r *memberRepo) FindActive(ctx context.Context, userId, locationId uuid.UUID) (*entity.PackMember, error) {
	return r.FindOne(ctx, specification.ActiveMembership{UserID: userId, LocationID: locationId})
}

func matchMember(m *entity.PackMember, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if m.Id != sp.ID {
				return false
			}
		case specification.ByUserID:
			if m.UserId != sp.UserID {
				return false
			}
		case specification.ByLocationID:
			if m.LocationId != sp.LocationID {
				return false
			}
		case specification.ActiveOnly:
			if m.Status != entity.MemberStatusActive {
				return false
			}
		case specification.ActiveMembership:
			if m.UserId != sp.UserID || m.LocationId != sp.LocationID || m.Status != entity.MemberStatusActive {
				return false
			}
		}
	}
	return true
}

// Message repository

type messageRepo struct{ store *Store }

func (r *messageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	cp := *message
	r.store.messages[message.Id] = &cp
	return nil
}

func (r *messageRepo) Update(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	cp := *message
	r.store.messages[message.Id] = &cp
	return nil
}

func (r *messageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	messages, err := r.FindAll(ctx, specs...)
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return messages[0], nil
}

func (r *messageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if matchMessage(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *messageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	messages, err := r.FindAll(ctx, specs...)
	return int64(len(messages)), err
}

func matchMessage(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if m.Id != sp.ID {
				return false
			}
		case specification.BySessionID:
			if m.SessionId != sp.SessionID {
				return false
			}
		case specification.VisibleMessages:
			if m.IsDeleted {
				return false
			}
		case specification.CreatedAfter:
			if !m.CreatedAt.After(sp.After) {
				return false
			}
		}
	}
	return true
}

// Reaction repository

type reactionRepo struct{ store *Store }

func (r *reactionRepo) Create(ctx context.Context, reaction *entity.MessageReaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	if reaction.Id == uuid.Nil {
		reaction.Id = uuid.New()
	}
	cp := *reaction
	r.store.reactions[reaction.Id] = &cp
	return nil
}

func (r *reactionRepo) Delete(ctx context.Context, messageId, userId uuid.UUID, emoji string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, rx := range r.store.reactions {
		if rx.MessageId == messageId && rx.UserId == userId && rx.Emoji == emoji {
			delete(r.store.reactions, id)
		}
	}
	return nil
}

func (r *reactionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageReaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.MessageReaction
	for _, rx := range r.store.reactions {
		include := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.ByMessageID:
				if rx.MessageId != sp.MessageID {
					include = false
				}
			case specification.ByMessageIDs:
				found := false
				for _, id := range sp.MessageIDs {
					if rx.MessageId == id {
						found = true
						break
					}
				}
				if !found {
					include = false
				}
			}
		}
		if include {
			cp := *rx
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Interaction repository

type interactionRepo struct{ store *Store }

func (r *interactionRepo) Create(ctx context.Context, interaction *entity.Interaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	if interaction.Id == uuid.Nil {
		interaction.Id = uuid.New()
	}
	cp := *interaction
	r.store.interactions[interaction.Id] = &cp
	return nil
}

func (r *interactionRepo) Update(ctx context.Context, interaction *entity.Interaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *interaction
	r.store.interactions[interaction.Id] = &cp
	return nil
}

func (r *interactionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Interaction, error) {
	interactions, err := r.FindAll(ctx, specs...)
	if err != nil || len(interactions) == 0 {
		return nil, err
	}
	return interactions[0], nil
}

func (r *interactionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Interaction
	for _, in := range r.store.interactions {
		if matchInteraction(in, specs) {
			cp := *in
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *interactionRepo) ActiveBlocksInvolving(ctx context.Context, userId uuid.UUID) ([]*entity.Interaction, error) {
	return r.FindAll(ctx,
		specification.InvolvingUser{UserID: userId},
		specification.ByInteractionType{Type: entity.InteractionTypeBlock},
		specification.ActiveOnly{},
	)
}

func matchInteraction(in *entity.Interaction, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if in.Id != sp.ID {
				return false
			}
		case specification.InvolvingUser:
			if in.SenderId != sp.UserID && in.ReceiverId != sp.UserID {
				return false
			}
		case specification.BetweenPair:
			ok := (in.SenderId == sp.UserA && in.ReceiverId == sp.UserB) ||
				(in.SenderId == sp.UserB && in.ReceiverId == sp.UserA)
			if !ok {
				return false
			}
		case specification.ByInteractionType:
			if in.Type != sp.Type {
				return false
			}
		case specification.ActiveOnly:
			if in.Status != entity.InteractionStatusActive {
				return false
			}
		}
	}
	return true
}

// Location repository

type locationRepo struct{ store *Store }

func (r *locationRepo) Create(ctx context.Context, location *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if location.Id == uuid.Nil {
		location.Id = uuid.New()
	}
	cp := *location
	r.store.locations[location.Id] = &cp
	return nil
}

func (r *locationRepo) Update(ctx context.Context, location *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *location
	r.store.locations[location.Id] = &cp
	return nil
}

func (r *locationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Location, error) {
	locations, err := r.FindAll(ctx, specs...)
	if err != nil || len(locations) == 0 {
		return nil, err
	}
	return locations[0], nil
}

func (r *locationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.store.locations {
		include := true
		for _, s := range specs {
			if sp, ok := s.(specification.ByID); ok && l.Id != sp.ID {
				include = false
			}
		}
		if include {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *locationRepo) FindActive(ctx context.Context) ([]*entity.Location, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.Location
	for _, l := range all {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

// User repository

type userRepo struct{ store *Store }

func (r *userRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	users, err := r.FindAll(ctx, specs...)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return users[0], nil
}

func (r *userRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, u := range r.store.users {
		include := true
		for _, s := range specs {
			if sp, ok := s.(specification.ByID); ok && u.Id != sp.ID {
				include = false
			}
		}
		if include {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *userRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, err := r.FindAll(ctx, specs...)
	return int64(len(users)), err
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

// Device token repository (tests only need the interface satisfied)

type deviceTokenRepo struct{ store *Store }

func (r *deviceTokenRepo) Upsert(ctx context.Context, token *entity.DeviceToken) error { return nil }
func (r *deviceTokenRepo) FindActiveByUserIDs(ctx context.Context, userIds []uuid.UUID) ([]*entity.DeviceToken, error) {
	return nil, nil
}
func (r *deviceTokenRepo) DeactivateTokens(ctx context.Context, tokens []string) error { return nil }

// Session repository

type sessionRepo struct{ store *Store }

func (r *sessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	cp := *session
	r.store.sessions[session.Id] = &cp
	return nil
}

func (r *sessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *session
	r.store.sessions[session.Id] = &cp
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *sessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, specs...)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

func (r *sessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatSession
	for _, cs := range r.store.sessions {
		include := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.ByID:
				if cs.Id != sp.ID {
					include = false
				}
			case specification.ByLocationID:
				if cs.LocationId != sp.LocationID {
					include = false
				}
			}
		}
		if include {
			cp := *cs
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Pack event repository

type eventRepo struct{ store *Store }

func (r *eventRepo) Create(ctx context.Context, event *entity.PackEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.takeErr(); err != nil {
		return err
	}
	if event.Id == uuid.Nil {
		event.Id = uuid.New()
	}
	cp := *event
	r.store.packEvents[event.Id] = &cp
	return nil
}

func (r *eventRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PackEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.PackEvent
	for _, e := range r.store.packEvents {
		include := true
		for _, s := range specs {
			switch sp := s.(type) {
			case specification.ByID:
				if e.Id != sp.ID {
					include = false
				}
			case specification.ByLocationID:
				if e.LocationId != sp.LocationID {
					include = false
				}
			}
		}
		if include {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
