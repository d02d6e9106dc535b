package health

import (
	"context"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// hostStats abstracts host resource readings so tests can inject fixed
// values.
type hostStats interface {
	MemoryUsedPercent(ctx context.Context) (float64, error)
	DiskUsedPercent(ctx context.Context, path string) (float64, error)
	LoadAverage(ctx context.Context) (load1, load5, load15 float64, err error)
}

type gopsutilStats struct{}

func (gopsutilStats) MemoryUsedPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

func (gopsutilStats) DiskUsedPercent(ctx context.Context, path string) (float64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.UsedPercent, nil
}

func (gopsutilStats) LoadAverage(ctx context.Context) (float64, float64, float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return avg.Load1, avg.Load5, avg.Load15, nil
}

// fsProber abstracts the filesystem checks on the data mount.
type fsProber interface {
	// CheckMount reports whether path exists and whether it is a mount
	// point (its device differs from its parent's).
	CheckMount(path string) (exists, mounted bool, err error)
	// WriteTest writes and deletes a scratch file under path.
	WriteTest(path string) error
	// UsagePercent reports the filesystem usage of path.
	UsagePercent(path string) (float64, error)
}

type osFSProber struct{}

func (osFSProber) CheckMount(path string) (bool, bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if !info.IsDir() {
		return true, false, nil
	}

	partitions, err := disk.Partitions(true)
	if err != nil {
		return true, false, err
	}
	clean := filepath.Clean(path)
	for _, part := range partitions {
		if filepath.Clean(part.Mountpoint) == clean {
			return true, true, nil
		}
	}
	return true, false, nil
}

func (osFSProber) WriteTest(path string) error {
	f, err := os.CreateTemp(path, ".collabctl-write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if _, err := f.WriteString("ok"); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Remove(name)
}

func (osFSProber) UsagePercent(path string) (float64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.UsedPercent, nil
}
