package lifecycle

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/efortin/podctl/pkg/config"
	"github.com/efortin/podctl/pkg/provider"
	"github.com/efortin/podctl/pkg/stats"
)

// Manager orchestrates pod lifecycle operations against the provider.
// It keeps no state between invocations: every operation re-resolves
// the pod from the provider's live listing, so the manager stays
// correct across process restarts.
type Manager struct {
	client  provider.Client
	cfg     *config.Config
	stamper *Stamper
	metrics *stats.Recorder
	verbose bool
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithVerbose enables progress logging for every step.
func WithVerbose(verbose bool) ManagerOption {
	return func(m *Manager) { m.verbose = verbose }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(recorder *stats.Recorder) ManagerOption {
	return func(m *Manager) { m.metrics = recorder }
}

// NewManager creates a lifecycle manager for the project described by cfg.
func NewManager(client provider.Client, cfg *config.Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:  client,
		cfg:     cfg,
		stamper: NewStamper(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Deploy provisions a new pod of the given type on the cheapest GPU
// type available under the configured price ceiling, falling back to
// the next cheapest type on capacity rejections.
func (m *Manager) Deploy(ctx context.Context, podType string) Result {
	return m.observe("deploy", func() Result { return m.deploy(ctx, podType) })
}

// Start resumes the most recent pod of the given type. When
// deployNewIfNeeded is set, a missing or unstartable pod falls through
// to a fresh deploy.
func (m *Manager) Start(ctx context.Context, podType string, deployNewIfNeeded bool) Result {
	return m.observe("start", func() Result { return m.start(ctx, podType, deployNewIfNeeded) })
}

// Stop stops the most recent pod of the given type.
func (m *Manager) Stop(ctx context.Context, podType string) Result {
	return m.observe("stop", func() Result { return m.stop(ctx, podType) })
}

// Restart stops then starts the pod. The two halves are sequential, not
// atomic: a stop failure aborts before start is attempted.
func (m *Manager) Restart(ctx context.Context, podType string, deployNewIfNeeded bool) Result {
	return m.observe("restart", func() Result { return m.restart(ctx, podType, deployNewIfNeeded) })
}

// Status reports the provider-observed state of the most recent pod of
// the given type.
func (m *Manager) Status(ctx context.Context, podType string) Result {
	return m.observe("status", func() Result { return m.status(ctx, podType) })
}

// Terminate deletes the most recent pod of the given type. After a
// successful terminate the pod is no longer resolvable; a second
// terminate reports NotFound.
func (m *Manager) Terminate(ctx context.Context, podType string) Result {
	return m.observe("terminate", func() Result { return m.terminate(ctx, podType) })
}

// ListGPUs fetches the current GPU catalog and the candidates that pass
// the configured price ceiling.
func (m *Manager) ListGPUs(ctx context.Context) ([]provider.GPUType, []Candidate, error) {
	var catalog []provider.GPUType
	err := m.call(ctx, "list GPU types", func() error {
		var listErr error
		catalog, listErr = m.client.ListGPUTypes(ctx)
		return listErr
	})
	if err != nil {
		return nil, nil, err
	}
	return catalog, SelectCandidates(m.cfg.MaxGPUPrice, catalog), nil
}

func (m *Manager) deploy(ctx context.Context, podType string) Result {
	m.logf(false, "Deploying new %s pod...", podType)

	var catalog []provider.GPUType
	err := m.call(ctx, "list GPU types", func() error {
		var listErr error
		catalog, listErr = m.client.ListGPUTypes(ctx)
		return listErr
	})
	if err != nil {
		return failure(ErrProviderUnreachable, err, "failed to fetch GPU catalog: %v", err)
	}

	candidates := SelectCandidates(m.cfg.MaxGPUPrice, catalog)
	m.metrics.SetAffordableGPUs(len(candidates))
	if len(candidates) == 0 {
		m.logf(true, "❌ No GPUs found under $%.2f/hr", m.cfg.MaxGPUPrice)
		return failure(ErrNoAffordableGPU, nil, "no GPU types available under $%.2f/hr", m.cfg.MaxGPUPrice)
	}

	name := PodName(m.cfg.ProjectName, podType, m.stamper.Next())
	image := m.cfg.ImageFor(podType)
	m.logf(false, "Creating pod: %s (image %s, disk %dGB)", name, image, m.cfg.ContainerDiskGB)

	var lastErr error
	for i, candidate := range candidates {
		m.logf(false, "🔄 Trying GPU %d/%d: %s - $%.3f/hr", i+1, len(candidates), candidate.DisplayName, candidate.Price)

		req := provider.CreatePodRequest{
			Name:            name,
			ImageName:       image,
			GPUTypeID:       candidate.TypeID,
			GPUCount:        m.cfg.GPUCount,
			ContainerDiskGB: m.cfg.ContainerDiskGB,
			TemplateID:      m.cfg.TemplateID,
			NetworkVolumeID: m.cfg.NetworkVolumeID,
			SupportPublicIP: m.cfg.SupportPublicIP,
			StartSSH:        m.cfg.StartSSH,
			Env: map[string]string{
				"RUNPOD_API_KEY":             m.cfg.APIKey,
				"POD_TYPE":                   podType,
				"INACTIVITY_TIMEOUT_SECONDS": strconv.Itoa(m.cfg.InactivityTimeoutSeconds),
			},
		}
		if m.cfg.NetworkVolumeID != "" {
			req.VolumeMountPath = m.cfg.VolumeMountPath
		}

		var pod *provider.Pod
		err := m.call(ctx, "create pod", func() error {
			var createErr error
			pod, createErr = m.client.CreatePod(ctx, req)
			return createErr
		})
		m.metrics.RecordDeployAttempt(candidate.TypeID, err == nil)

		if err == nil {
			m.logf(true, "✅ Pod %s created with %s (ID: %s)", name, candidate.DisplayName, pod.ID)
			return okResult(statusFromDesired(pod.DesiredStatus), pod, "pod %s created with %s at $%.3f/hr", name, candidate.DisplayName, candidate.Price)
		}
		if isRetriesExhausted(err) {
			return failure(ErrProviderUnreachable, err, "provider unreachable while creating pod: %v", err)
		}
		if provider.IsCapacity(err) {
			m.logf(false, "⚠️ %s not available, trying next GPU...", candidate.DisplayName)
		} else {
			m.logf(false, "⚠️ Error with %s: %v", candidate.DisplayName, err)
		}
		lastErr = err
	}

	m.logf(true, "❌ All %d affordable GPUs failed, no pod could be created", len(candidates))
	return failure(ErrNoCapacity, lastErr, "all %d affordable GPU types failed", len(candidates))
}

func (m *Manager) start(ctx context.Context, podType string, deployNewIfNeeded bool) Result {
	m.logf(false, "Starting %s pod...", podType)

	pod, err := m.findPod(ctx, podType)
	if err != nil {
		return failure(m.kindFor(err, ErrStartFailed), err, "failed to resolve %s pod: %v", podType, err)
	}
	if pod == nil {
		if deployNewIfNeeded {
			m.logf(false, "Pod not found, deploying a new pod...")
			return m.deploy(ctx, podType)
		}
		return failure(ErrNotFound, nil, "no %s pod found", podType)
	}

	if statusFromDesired(pod.DesiredStatus) == StatusRunning {
		m.logf(false, "✅ Pod is already running, no action needed")
		return okResult(StatusRunning, pod, "pod %s is already running", pod.Name)
	}

	m.logf(false, "Starting pod %s...", pod.ID)
	err = m.call(ctx, "start pod", func() error {
		return m.client.StartPod(ctx, pod.ID, m.cfg.GPUCount)
	})
	if err == nil {
		err = m.waitForStatus(ctx, pod.ID, StatusRunning)
	}
	if err != nil {
		m.logf(true, "❌ Failed to start pod %s: %v", pod.ID, err)
		if deployNewIfNeeded {
			m.logf(false, "Start failed, terminating current pod and deploying a new one...")
			if termErr := m.call(ctx, "terminate pod", func() error {
				return m.client.TerminatePod(ctx, pod.ID)
			}); termErr != nil {
				m.logf(true, "⚠️ Failed to terminate pod %s: %v", pod.ID, termErr)
			}
			return m.deploy(ctx, podType)
		}
		return failure(m.kindFor(err, ErrStartFailed), err, "failed to start pod %s: %v", pod.Name, err)
	}

	m.logf(false, "✅ Pod is now running")
	return okResult(StatusRunning, pod, "pod %s started", pod.Name)
}

func (m *Manager) stop(ctx context.Context, podType string) Result {
	m.logf(false, "Stopping %s pod...", podType)

	pod, err := m.findPod(ctx, podType)
	if err != nil {
		return failure(m.kindFor(err, ErrStopFailed), err, "failed to resolve %s pod: %v", podType, err)
	}
	if pod == nil {
		return failure(ErrNotFound, nil, "no %s pod found", podType)
	}

	if statusFromDesired(pod.DesiredStatus) == StatusStopped {
		m.logf(false, "✅ Pod is already stopped, no action needed")
		return okResult(StatusStopped, pod, "pod %s is already stopped", pod.Name)
	}

	m.logf(false, "Stopping pod %s...", pod.ID)
	err = m.call(ctx, "stop pod", func() error {
		return m.client.StopPod(ctx, pod.ID)
	})
	if err == nil {
		err = m.waitForStatus(ctx, pod.ID, StatusStopped)
	}
	if err != nil {
		m.logf(true, "❌ Failed to stop pod %s: %v", pod.ID, err)
		return failure(m.kindFor(err, ErrStopFailed), err, "failed to stop pod %s: %v", pod.Name, err)
	}

	m.logf(false, "✅ Pod is now stopped")
	return okResult(StatusStopped, pod, "pod %s stopped", pod.Name)
}

func (m *Manager) restart(ctx context.Context, podType string, deployNewIfNeeded bool) Result {
	m.logf(false, "Restarting %s pod...", podType)

	stopRes := m.stop(ctx, podType)
	if !stopRes.OK {
		// A missing pod only aborts the restart when the caller did not
		// ask for a replacement deploy.
		if stopRes.Kind != ErrNotFound || !deployNewIfNeeded {
			res := failure(ErrRestartFailed, stopRes.Err, "restart aborted, stop failed: %s", stopRes.Message)
			res.Stage = "stop"
			return res
		}
	}

	startRes := m.start(ctx, podType, deployNewIfNeeded)
	if !startRes.OK {
		res := failure(ErrRestartFailed, startRes.Err, "restart failed at start: %s", startRes.Message)
		res.Stage = "start"
		return res
	}
	return okResult(startRes.Status, startRes.Pod, "%s pod restarted", podType)
}

func (m *Manager) status(ctx context.Context, podType string) Result {
	pod, err := m.findPod(ctx, podType)
	if err != nil {
		return failure(ErrProviderUnreachable, err, "failed to resolve %s pod: %v", podType, err)
	}
	if pod == nil {
		res := failure(ErrNotFound, nil, "no %s pod found", podType)
		res.Status = StatusNotFound
		return res
	}
	current := statusFromDesired(pod.DesiredStatus)
	return okResult(current, pod, "pod %s is %s", pod.Name, current)
}

func (m *Manager) terminate(ctx context.Context, podType string) Result {
	m.logf(false, "Terminating %s pod...", podType)

	pod, err := m.findPod(ctx, podType)
	if err != nil {
		return failure(m.kindFor(err, ErrTerminateFailed), err, "failed to resolve %s pod: %v", podType, err)
	}
	if pod == nil {
		// Terminating twice lands here: the second call reports NotFound
		// as a typed result rather than an error.
		return failure(ErrNotFound, nil, "no %s pod found", podType)
	}

	err = m.call(ctx, "terminate pod", func() error {
		return m.client.TerminatePod(ctx, pod.ID)
	})
	if err != nil {
		m.logf(true, "❌ Termination failed: %v", err)
		return failure(m.kindFor(err, ErrTerminateFailed), err, "failed to terminate pod %s: %v", pod.Name, err)
	}

	m.logf(true, "✅ Pod %s terminated successfully", pod.ID)
	return okResult(StatusTerminated, pod, "pod %s terminated", pod.Name)
}

// findPod resolves the most recent pod for (project, podType) from the
// provider's live listing. Returns nil when no pod matches.
func (m *Manager) findPod(ctx context.Context, podType string) (*provider.Pod, error) {
	var pods []provider.Pod
	err := m.call(ctx, "list pods", func() error {
		var listErr error
		pods, listErr = m.client.ListPods(ctx)
		return listErr
	})
	if err != nil {
		return nil, err
	}
	m.logf(false, "🔍 Found %d total pods", len(pods))

	prefix := PodNamePrefix(m.cfg.ProjectName, podType)
	var newest *provider.Pod
	var newestTS int64
	for i := range pods {
		ts, ok := timestampFromName(pods[i].Name, prefix)
		if !ok {
			continue
		}
		if newest == nil || ts > newestTS {
			newest = &pods[i]
			newestTS = ts
		}
	}
	if newest != nil {
		m.logf(false, "✅ Found %s pod: %s (ID: %s)", podType, newest.Name, newest.ID)
	}
	return newest, nil
}

// waitForStatus polls the provider until the pod reaches one of the
// target statuses or the configured timeout elapses.
func (m *Manager) waitForStatus(ctx context.Context, podID string, targets ...Status) error {
	waitCtx, cancel := context.WithTimeout(ctx, m.cfg.StatusTimeout)
	defer cancel()

	ticker := time.NewTicker(m.cfg.StatusPollInterval)
	defer ticker.Stop()

	for {
		current, err := m.statusOf(waitCtx, podID)
		if err != nil {
			return err
		}
		for _, target := range targets {
			if current == target {
				return nil
			}
		}
		if current == StatusNotFound {
			return fmt.Errorf("pod %s no longer exists", podID)
		}
		m.logf(false, "Waiting for pod status... current: %s", current)

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("timed out waiting for pod %s: %w", podID, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

func (m *Manager) statusOf(ctx context.Context, podID string) (Status, error) {
	var pods []provider.Pod
	err := m.call(ctx, "list pods", func() error {
		var listErr error
		pods, listErr = m.client.ListPods(ctx)
		return listErr
	})
	if err != nil {
		return "", err
	}
	for _, p := range pods {
		if p.ID == podID {
			return statusFromDesired(p.DesiredStatus), nil
		}
	}
	return StatusNotFound, nil
}

// call wraps one provider call with the retry policy and metrics.
func (m *Manager) call(ctx context.Context, name string, fn func() error) error {
	attempt := 0
	return withRetry(ctx, name, m.cfg.MaxAttempts, m.cfg.RetryBackoff, func() error {
		if attempt > 0 {
			m.metrics.RecordProviderRetry(name)
		}
		attempt++
		err := fn()
		m.metrics.RecordProviderCall(name, err == nil)
		return err
	})
}

// kindFor maps an error to its result kind, promoting exhausted retries
// to ProviderUnreachable.
func (m *Manager) kindFor(err error, fallback ErrorKind) ErrorKind {
	if isRetriesExhausted(err) {
		return ErrProviderUnreachable
	}
	return fallback
}

func (m *Manager) observe(op string, fn func() Result) Result {
	start := time.Now()
	res := fn()
	m.metrics.RecordOperation(op, res.OK, time.Since(start))
	return res
}

func (m *Manager) logf(force bool, format string, args ...any) {
	if m.verbose || force {
		log.Printf(format, args...)
	}
}
