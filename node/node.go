package node

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tobiajo/whirlpool/common"
	"github.com/tobiajo/whirlpool/protocol"
	"github.com/tobiajo/whirlpool/utils"
)

// Node is the single-writer state machine behind one harness node. It is
// not safe for concurrent use; Step must be called sequentially.
type Node struct {
	nextMsgID uint64
	workload  Workload
	topology  map[string]common.NodeSet

	ids    utils.IDGenerator
	stats  *Stats
	logger *logrus.Entry
}

type Option func(*Node)

// WithIDGenerator replaces the UUID generator used for generate requests.
func WithIDGenerator(ids utils.IDGenerator) Option {
	return func(n *Node) { n.ids = ids }
}

func WithLogger(logger *logrus.Entry) Option {
	return func(n *Node) { n.logger = logger }
}

func NewNode(workload Workload, opts ...Option) *Node {
	n := &Node{
		workload: workload,
		topology: make(map[string]common.NodeSet),
		ids:      utils.NewUUIDGenerator(),
		stats:    NewStats(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		logger := logrus.New()
		logger.Level = logrus.WarnLevel
		n.logger = logger.WithField("prefix", "node")
	}
	return n
}

// Step applies one inbound envelope and returns the reply to emit, if any.
// The message counter advances once per successful step; a failed step
// leaves all state untouched.
func (n *Node) Step(in protocol.Envelope) (*protocol.Envelope, error) {
	var (
		res protocol.Payload
		err error
	)
	switch req := in.Body.Payload.(type) {
	case protocol.Echo:
		res, err = n.echoHandler(req)
	case protocol.Init:
		res, err = n.initHandler(req)
	case protocol.Generate:
		res, err = n.generateHandler(req)
	case protocol.Topology:
		res, err = n.topologyHandler(req)
	case protocol.Add, protocol.Broadcast, protocol.Read:
		res, err = n.workload.Apply(req)
	case protocol.InitOk:
		n.logger.WithField("src", in.Src).Debug("init_ok acknowledged")
	case nil:
		err = protocol.Malformed(nil, "missing payload")
	default:
		if protocol.IsReply(req) {
			err = protocol.Unexpected(req.Type())
		} else {
			err = protocol.Unsupported(req.Type(), string(n.workload.Kind()))
		}
	}
	if err != nil {
		return nil, err
	}

	var out *protocol.Envelope
	if res != nil {
		reply := in.Reply(n.nextMsgID, res)
		out = &reply
	}
	n.nextMsgID++
	n.stats.Record(in.Type())
	return out, nil
}

// NextMsgID is the id the next reply will carry.
func (n *Node) NextMsgID() uint64 {
	return n.nextMsgID
}

func (n *Node) Workload() Workload {
	return n.workload
}

// Topology returns a copy of the last topology received.
func (n *Node) Topology() map[string]common.NodeSet {
	return lo.MapValues(n.topology, func(neighbors common.NodeSet, _ string) common.NodeSet {
		return neighbors.Clone()
	})
}

// Neighbors returns the neighbors of id in the last topology received.
func (n *Node) Neighbors(id string) common.NodeSet {
	return n.topology[id].Clone()
}

func (n *Node) Stats() *Stats {
	return n.stats
}
