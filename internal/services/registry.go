// Package services provides the chat turn controller, LLM provider clients and
// the supporting services (configuration, model catalog, rendering) of chatllm.
package services

import (
	"fmt"
	"sync"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// Registry manages service registration and lifecycle.
// Services are initialized in registration order so later services may depend on earlier ones.
type Registry struct {
	mu          sync.Mutex
	services    map[string]chattypes.Service
	order       []string
	initialized map[string]bool
}

// NewRegistry creates a new service registry with an empty service map.
func NewRegistry() *Registry {
	return &Registry{
		services:    make(map[string]chattypes.Service),
		initialized: make(map[string]bool),
	}
}

// RegisterService adds a service to the registry, returning an error if already registered.
func (r *Registry) RegisterService(service chattypes.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := service.Name()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}

	r.services[name] = service
	r.order = append(r.order, name)
	return nil
}

// GetService retrieves a service by name, returning an error if not found.
func (r *Registry) GetService(name string) (chattypes.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	service, exists := r.services[name]
	if !exists {
		return nil, fmt.Errorf("service %s not found", name)
	}

	return service, nil
}

// InitializeAll initializes the registered services in registration order.
// Services initialized by an earlier call are skipped, so services registered
// later can be brought up with another call.
func (r *Registry) InitializeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		if r.initialized[name] {
			continue
		}
		logger.ServiceOperation(name, "initialize")
		if err := r.services[name].Initialize(); err != nil {
			return fmt.Errorf("failed to initialize service %s: %w", name, err)
		}
		r.initialized[name] = true
	}

	return nil
}

// Names returns the registered service names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Lookup fetches a service by name and asserts its concrete type.
func Lookup[T chattypes.Service](r *Registry, name string) (T, error) {
	var zero T

	service, err := r.GetService(name)
	if err != nil {
		return zero, err
	}

	typed, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("service %s has unexpected type %T", name, service)
	}
	return typed, nil
}
