//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package node

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/gmw"
	"github.com/markkurossi/mpcnet/rpc"
	"github.com/markkurossi/mpcnet/store"
	"github.com/markkurossi/mpcnet/vm"
	"golang.org/x/sync/errgroup"
)

// Coordination messages.
const (
	msgAbort byte = iota
	msgReady
)

// lead runs the leader's coordination loop. The leader serializes
// the jobs: it announces each job to the peers, collects their
// ready/abort answers, and broadcasts the decision.
func (n *Node) lead() error {
	for {
		var a *arrival
		select {
		case a = <-n.queue:
		case <-n.done:
			return nil
		}

		ready, err := n.announce(a)
		if err != nil {
			n.abort(a.id, err)
			return err
		}
		if err := n.broadcast(ready); err != nil {
			n.abort(a.id, err)
			return err
		}
		n.forget(a.id)
		if ready {
			n.execute(a.id)
		} else if a.accepted {
			n.abort(a.id, errors.Wrap(rpc.ErrAborted, "rejected by peers"))
		}
	}
}

// announce announces the job to all peers and returns true if all
// peers are ready to run it.
func (n *Node) announce(a *arrival) (bool, error) {
	peers := n.mesh.Peers()
	answers := make([]byte, len(peers))

	var g errgroup.Group
	for i, peer := range peers {
		g.Go(func() error {
			if err := peer.Conn.SendString(string(a.id)); err != nil {
				return err
			}
			if err := peer.Conn.Flush(); err != nil {
				return err
			}
			answer, err := peer.Conn.ReceiveByte()
			if err != nil {
				return err
			}
			answers[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	ready := a.accepted
	for i, answer := range answers {
		if answer != msgReady {
			n.config.Logf("%s: compute %s: peer %d aborted\n",
				n, a.id, peers[i].ID)
			ready = false
		}
	}
	return ready, nil
}

func (n *Node) broadcast(ready bool) error {
	msg := msgAbort
	if ready {
		msg = msgReady
	}
	for _, peer := range n.mesh.Peers() {
		if err := peer.Conn.SendByte(msg); err != nil {
			return err
		}
		if err := peer.Conn.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// follow runs the peer's coordination loop. It waits for job
// announcements from the leader.
func (n *Node) follow() error {
	leader := n.mesh.Peer(0)
	if leader == nil {
		return errors.Newf("%s: no leader", n)
	}
	for {
		id, err := leader.Conn.ReceiveString()
		if err != nil {
			return err
		}
		cid := vm.ComputeID(id)
		accepted := n.awaitArrival(cid)

		answer := msgAbort
		if accepted {
			answer = msgReady
		}
		if err := leader.Conn.SendByte(answer); err != nil {
			return err
		}
		if err := leader.Conn.Flush(); err != nil {
			return err
		}
		decision, err := leader.Conn.ReceiveByte()
		if err != nil {
			return err
		}
		n.forget(cid)

		if decision == msgReady {
			n.execute(cid)
		} else if accepted {
			n.abort(cid, errors.Wrap(rpc.ErrAborted, "aborted by leader"))
		}
	}
}

// awaitArrival waits until the node has decided about the job or
// the arrival timeout expires. It returns true if the node accepted
// the job.
func (n *Node) awaitArrival(id vm.ComputeID) bool {
	n.m.Lock()
	a := n.arrival(id)
	n.m.Unlock()

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	select {
	case <-a.c:
	case <-timer.C:
		n.config.Logf("%s: compute %s: job did not arrive in %s\n",
			n, id, n.timeout)
	case <-n.done:
	}

	n.m.Lock()
	defer n.m.Unlock()

	if !a.decided {
		// Reject late arrivals.
		a.decided = true
		close(a.c)
	}
	return a.accepted
}

func (n *Node) abort(id vm.ComputeID, err error) {
	job, getErr := n.results.Get(id)
	if getErr != nil || job.State.Terminal() {
		return
	}
	n.config.Logf("%s: compute %s: %v\n", n, id, err)
	n.results.Fail(id, err)
}

// execute runs the job with the peers and records this node's
// output shares.
func (n *Node) execute(id vm.ComputeID) {
	job, err := n.results.Get(id)
	if err != nil {
		n.config.GetLogger().Printf("%s: compute %s: %v\n", n, id, err)
		return
	}
	if err := n.results.SetRunning(id); err != nil {
		n.abort(id, err)
		return
	}
	circ, err := n.programs.Circuit(job.Program)
	if err != nil {
		n.abort(id, err)
		return
	}
	start := time.Now()

	session := gmw.NewSession(n.mesh, n.config)
	outputs, err := session.Run(circ, job.InputShares)
	if err != nil {
		n.abort(id, errors.Wrap(rpc.ErrAborted, err.Error()))
		return
	}
	var results []store.Result
	for idx, arg := range circ.Outputs {
		results = append(results, store.Result{
			Name:  arg.Name,
			Party: circ.Parties[arg.Party],
			Share: vm.Share{
				Type: arg.Type,
				Data: outputs[idx],
			},
		})
	}
	if err := n.results.Finish(id, results); err != nil {
		n.config.GetLogger().Printf("%s: compute %s: %v\n", n, id, err)
		return
	}
	n.config.Logf("%s: compute %s done in %s\n", n, id, time.Since(start))
	if n.config != nil && n.config.Verbose {
		fmt.Fprintf(n.config.GetLogger().Writer(), "%s: compute %s:\n", n, id)
		session.Timing.Print(n.config.GetLogger().Writer(), session.Stats)
	}
}
