package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// 各面板在 init 里注册挂载函数，引擎统一挂载。
// order 数值越小越先挂，默认 100。

type Mount func(g *gin.RouterGroup, d *Deps)

type entry struct {
	order int
	fn    Mount
}

var (
	mu         sync.RWMutex
	ownerMods  []entry
	vendorMods []entry
)

func RegisterOwner(order int, fn Mount) {
	mu.Lock()
	defer mu.Unlock()
	ownerMods = append(ownerMods, entry{order: order, fn: fn})
}

func RegisterVendor(order int, fn Mount) {
	mu.Lock()
	defer mu.Unlock()
	vendorMods = append(vendorMods, entry{order: order, fn: fn})
}

func MountAllOwner(g *gin.RouterGroup, d *Deps) { mountAll(ownerMods, g, d) }

func MountAllVendor(g *gin.RouterGroup, d *Deps) { mountAll(vendorMods, g, d) }

func mountAll(mods []entry, g *gin.RouterGroup, d *Deps) {
	mu.RLock()
	list := append([]entry(nil), mods...)
	mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].order < list[j].order })
	for _, e := range list {
		e.fn(g, d)
	}
}
