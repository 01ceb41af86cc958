package vulkan

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"frameloop/core"
	"frameloop/gfx"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// Instance owns the Vulkan instance. It replaces any process-wide instance
// state: everything that needs the instance receives it explicitly.
type Instance struct {
	Handle           vk.Instance
	EnableValidation bool
}

type InstanceConfig struct {
	AppName            string
	EngineName         string
	AppVersion         uint32
	EngineVersion      uint32
	EnableValidation   bool
	RequiredExtensions []string
}

func DefaultInstanceConfig() InstanceConfig {
	return InstanceConfig{
		AppName:       "frameloop",
		EngineName:    "frameloop",
		AppVersion:    vk.MakeVersion(1, 0, 0),
		EngineVersion: vk.MakeVersion(1, 0, 0),
	}
}

// NewInstance bootstraps the loader through GLFW and creates the instance.
// GLFW must be initialized.
func NewInstance(config InstanceConfig) (*Instance, error) {
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize the Vulkan loader")
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(config.AppName),
		ApplicationVersion: config.AppVersion,
		PEngineName:        safeString(config.EngineName),
		EngineVersion:      config.EngineVersion,
		ApiVersion:         vk.ApiVersion10,
	}

	extensions := safeStrings(config.RequiredExtensions)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	if config.EnableValidation {
		if !validationLayerSupported() {
			return nil, errors.New("validation layers requested but not available")
		}
		layers := []string{safeString(validationLayer)}
		createInfo.EnabledLayerCount = uint32(len(layers))
		createInfo.PpEnabledLayerNames = layers
	}

	var instance vk.Instance
	if err := check(vk.CreateInstance(&createInfo, nil, &instance), "create Vulkan instance"); err != nil {
		return nil, err
	}

	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "failed to load instance functions")
	}

	logger.Infof("instance created (validation: %v, %d extensions)", config.EnableValidation, len(extensions))

	return &Instance{
		Handle:           instance,
		EnableValidation: config.EnableValidation,
	}, nil
}

// CreateSurface creates the presentation surface of window.
func (i *Instance) CreateSurface(window *core.Window) (gfx.Handle, error) {
	ptr, err := window.CreateWindowSurface(i.Handle)
	if err != nil {
		return gfx.Null, err
	}
	return gfx.Handle(ptr), nil
}

func (i *Instance) DestroySurface(surface gfx.Handle) {
	vk.DestroySurface(i.Handle, vk.SurfaceFromPointer(uintptr(surface)), nil)
}

func (i *Instance) Destroy() {
	vk.DestroyInstance(i.Handle, nil)
}

func validationLayerSupported() bool {
	var count uint32
	if vk.EnumerateInstanceLayerProperties(&count, nil) != vk.Success {
		return false
	}

	layers := make([]vk.LayerProperties, count)
	if vk.EnumerateInstanceLayerProperties(&count, layers) != vk.Success {
		return false
	}

	for _, layer := range layers {
		layer.Deref()
		if vk.ToString(layer.LayerName[:]) == validationLayer {
			return true
		}
	}

	return false
}
