package runpod

import "github.com/efortin/podctl/pkg/provider"

// gpuType mirrors the marketplace's GPU type resource.
type gpuType struct {
	ID                 string   `json:"id"`
	DisplayName        string   `json:"displayName"`
	MemoryInGB         int      `json:"memoryInGb"`
	SecureCloud        bool     `json:"secureCloud"`
	CommunityCloud     bool     `json:"communityCloud"`
	CommunitySpotPrice *float64 `json:"communitySpotPrice"`
	SecureSpotPrice    *float64 `json:"secureSpotPrice"`
}

func (g gpuType) toProvider() provider.GPUType {
	return provider.GPUType{
		ID:                 g.ID,
		DisplayName:        g.DisplayName,
		MemoryGB:           g.MemoryInGB,
		SecureCloud:        g.SecureCloud,
		CommunityCloud:     g.CommunityCloud,
		CommunitySpotPrice: g.CommunitySpotPrice,
		SecureSpotPrice:    g.SecureSpotPrice,
	}
}

// pod mirrors the marketplace's pod resource.
type pod struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DesiredStatus string  `json:"desiredStatus"`
	ImageName     string  `json:"imageName"`
	GPUTypeID     string  `json:"gpuTypeId"`
	GPUCount      int     `json:"gpuCount"`
	CostPerHour   float64 `json:"costPerHr"`
}

func (p pod) toProvider() provider.Pod {
	return provider.Pod{
		ID:            p.ID,
		Name:          p.Name,
		DesiredStatus: p.DesiredStatus,
		ImageName:     p.ImageName,
		GPUTypeID:     p.GPUTypeID,
		GPUCount:      p.GPUCount,
		CostPerHour:   p.CostPerHour,
	}
}

// createPodRequest is the wire form of a pod creation call.
type createPodRequest struct {
	Name              string            `json:"name"`
	ImageName         string            `json:"imageName"`
	GPUTypeID         string            `json:"gpuTypeId"`
	GPUCount          int               `json:"gpuCount"`
	ContainerDiskInGB int               `json:"containerDiskInGb"`
	TemplateID        string            `json:"templateId,omitempty"`
	NetworkVolumeID   string            `json:"networkVolumeId,omitempty"`
	VolumeMountPath   string            `json:"volumeMountPath,omitempty"`
	SupportPublicIP   bool              `json:"supportPublicIp"`
	StartSSH          bool              `json:"startSsh"`
	Env               map[string]string `json:"env,omitempty"`
}

// startPodRequest is the wire form of a pod resume call.
type startPodRequest struct {
	GPUCount int `json:"gpuCount"`
}

// apiError is the error envelope returned on non-2xx responses.
type apiError struct {
	Error string `json:"error"`
}
