package chattypes

// Service defines the interface for chatllm services that provide specific functionality.
// Services are registered at startup and initialized once, in registration order.
type Service interface {
	Name() string
	Initialize() error
}

// ServiceRegistry manages the registration and retrieval of services.
type ServiceRegistry interface {
	GetService(name string) (Service, error)
	RegisterService(service Service) error
}
