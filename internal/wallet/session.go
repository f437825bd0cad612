// Package wallet tracks the connection lifecycle of the user's wallet and
// notifies subscribers about connect/disconnect transitions.
package wallet

import (
	"crypto/ecdsa"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Transition is one connection state change.
type Transition struct {
	Connected bool
	Address   common.Address
}

// Session holds the current wallet connection state. It is safe for
// concurrent use; transitions are delivered to subscribers on buffered
// channels and never block the caller.
type Session struct {
	mu        sync.RWMutex
	connected bool
	address   common.Address
	key       *ecdsa.PrivateKey
	subs      []chan Transition
}

func NewSession() *Session {
	return &Session{}
}

// Connect derives the wallet address from the given hex-encoded private key
// and marks the session connected.
func (s *Session) Connect(privateKeyHex string) error {
	key := privateKeyHex
	if len(key) >= 2 && (strings.HasPrefix(key, "0x") || strings.HasPrefix(key, "0X")) {
		key = key[2:]
	}

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return errors.Wrap(err, "parse wallet private key")
	}

	pub := privateKey.Public()
	pubECDSA, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("error casting public key to ECDSA")
	}
	addr := crypto.PubkeyToAddress(*pubECDSA)

	s.mu.Lock()
	s.connected = true
	s.address = addr
	s.key = privateKey
	s.mu.Unlock()

	s.notify(Transition{Connected: true, Address: addr})
	return nil
}

// Disconnect clears the connection state. Disconnecting an already
// disconnected session still emits a transition so duplicate signals from
// the wallet provider reach subscribers unchanged.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.connected = false
	s.address = common.Address{}
	s.key = nil
	s.mu.Unlock()

	s.notify(Transition{Connected: false})
}

// Connected reports whether a wallet is connected.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Address returns the connected wallet address, false when disconnected.
func (s *Session) Address() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return common.Address{}, false
	}
	return s.address, true
}

// Key returns the connected wallet's private key, nil when disconnected.
func (s *Session) Key() *ecdsa.PrivateKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Subscribe returns a channel receiving every subsequent transition.
// Slow subscribers drop transitions instead of blocking the session.
func (s *Session) Subscribe() <-chan Transition {
	ch := make(chan Transition, 8)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Session) notify(tr Transition) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- tr:
		default:
		}
	}
}
