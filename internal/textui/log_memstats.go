// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package textui

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// LiveMemUse is a fmt.Stringer that reports a live snapshot of the Go
// runtime's memory use. No cmd/fdt subcommand uses it at present.
type LiveMemUse struct {
	mu    sync.Mutex
	stats runtime.MemStats
	last  time.Time
}

var _ fmt.Stringer = (*LiveMemUse)(nil)

var LiveMemUseUpdateInterval = 1 * time.Second

func (o *LiveMemUse) String() string {
	o.mu.Lock()
	if now := time.Now(); now.Sub(o.last) > LiveMemUseUpdateInterval {
		runtime.ReadMemStats(&o.stats)
		o.last = now
	}

	prepared := float64(o.stats.HeapReleased)
	ready := float64(o.stats.Sys) - prepared
	inuse := float64(o.stats.HeapInuse + o.stats.StackInuse + o.stats.MSpanInuse + o.stats.MCacheInuse + o.stats.BuckHashSys + o.stats.GCSys + o.stats.OtherSys)
	readyFragOverhead := float64(o.stats.HeapInuse) - float64(o.stats.HeapAlloc)
	readyData := inuse - readyFragOverhead
	readyIdle := ready - inuse
	o.mu.Unlock()

	return Sprintf("Ready+Prepared=%v (Ready=%v (data:%v + fragOverhead:%v + idle:%v) ; Prepared=%v)",
		IEC(ready+prepared, "B"),
		IEC(ready, "B"),
		IEC(readyData, "B"),
		IEC(readyFragOverhead, "B"),
		IEC(readyIdle, "B"),
		IEC(prepared, "B"))
}
