// Package provider defines the capability interface the lifecycle manager
// depends on, together with the error taxonomy for provider failures.
package provider

import "context"

// GPUType represents a GPU type offered by the marketplace with its
// current spot pricing.
type GPUType struct {
	ID                 string
	DisplayName        string
	MemoryGB           int
	SecureCloud        bool
	CommunityCloud     bool
	CommunitySpotPrice *float64
	SecureSpotPrice    *float64
}

// SpotPrice returns the lowest usable spot price for the GPU type,
// preferring community cloud over secure cloud. The second return value
// is false when the type has no spot price at all.
func (g GPUType) SpotPrice() (float64, bool) {
	if g.CommunitySpotPrice != nil {
		return *g.CommunitySpotPrice, true
	}
	if g.SecureSpotPrice != nil {
		return *g.SecureSpotPrice, true
	}
	return 0, false
}

// Pod is the provider's record of a rented instance. It is held only
// transiently per operation; the provider remains the source of truth.
type Pod struct {
	ID            string
	Name          string
	DesiredStatus string
	ImageName     string
	GPUTypeID     string
	GPUCount      int
	CostPerHour   float64
}

// ProxyURL returns the public proxy endpoint for the pod's service port.
func (p Pod) ProxyURL() string {
	return "https://" + p.ID + "-5000.proxy.runpod.net"
}

// CreatePodRequest carries the parameters for provisioning a new pod.
type CreatePodRequest struct {
	Name            string
	ImageName       string
	GPUTypeID       string
	GPUCount        int
	ContainerDiskGB int
	TemplateID      string
	NetworkVolumeID string
	VolumeMountPath string
	SupportPublicIP bool
	StartSSH        bool
	Env             map[string]string
}

// Client abstracts the marketplace API. Implementations must return a
// *CapacityError when a specific GPU type cannot be provisioned, so the
// lifecycle manager can advance to the next candidate instead of retrying.
type Client interface {
	ListGPUTypes(ctx context.Context) ([]GPUType, error)
	ListPods(ctx context.Context) ([]Pod, error)
	CreatePod(ctx context.Context, req CreatePodRequest) (*Pod, error)
	StartPod(ctx context.Context, podID string, gpuCount int) error
	StopPod(ctx context.Context, podID string) error
	TerminatePod(ctx context.Context, podID string) error
}
