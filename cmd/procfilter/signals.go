package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// forwardedSignals are relayed to the running child.
var forwardedSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// signalForwarder relays signals received by this process to a child.
type signalForwarder struct {
	signals chan os.Signal
	done    chan struct{}
	exited  chan struct{}
	stopped sync.Once
}

// forwardSignals starts relaying forwardedSignals to pid until stop is
// called. Delivery errors are ignored since the child may already have
// exited.
func forwardSignals(pid int) *signalForwarder {
	f := &signalForwarder{
		signals: make(chan os.Signal, 4),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}

	signal.Notify(f.signals, forwardedSignals...)

	go func() {
		defer close(f.exited)

		for {
			select {
			case sig := <-f.signals:
				if sysSig, ok := sig.(syscall.Signal); ok {
					_ = unix.Kill(pid, sysSig)
				}
			case <-f.done:
				return
			}
		}
	}()

	return f
}

// stop ends forwarding. Once it returns no further signal is sent to the
// child. It is safe to call more than once.
func (f *signalForwarder) stop() {
	if f == nil {
		return
	}

	f.stopped.Do(func() {
		signal.Stop(f.signals)
		close(f.done)
		<-f.exited
	})
}
