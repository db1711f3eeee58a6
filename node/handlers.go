package node

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tobiajo/whirlpool/common"
	"github.com/tobiajo/whirlpool/protocol"
)

func (n *Node) echoHandler(req protocol.Echo) (protocol.EchoOk, error) {
	res := protocol.EchoOk{
		Echo: req.Echo,
	}
	return res, nil
}

// Node identity is owned by the harness; init is only acknowledged.
func (n *Node) initHandler(req protocol.Init) (protocol.InitOk, error) {
	n.logger.WithFields(logrus.Fields{
		"node_id":  req.NodeID,
		"node_ids": req.NodeIDs,
	}).Info("Node initialized")
	return protocol.InitOk{}, nil
}

func (n *Node) generateHandler(req protocol.Generate) (protocol.GenerateOk, error) {
	res := protocol.GenerateOk{
		ID: n.ids.Generate(),
	}
	return res, nil
}

// Last write wins; the previous topology is discarded, not merged.
func (n *Node) topologyHandler(req protocol.Topology) (protocol.TopologyOk, error) {
	topology := lo.MapValues(req.Topology, func(neighbors common.NodeSet, _ string) common.NodeSet {
		return neighbors.Clone()
	})
	n.topology = topology
	n.logger.WithField("nodes", len(topology)).Debug("Topology replaced")
	return protocol.TopologyOk{}, nil
}
