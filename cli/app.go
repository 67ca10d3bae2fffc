// Package cli contains the armik command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/armik/arm"
	"go.viam.com/armik/logging"
)

// Flags.
const (
	flagDebug         = "debug"
	flagPreset        = "preset"
	flagConfig        = "config"
	flagJoints        = "joints"
	flagTarget        = "target"
	flagAxisAngle     = "axis-angle"
	flagSolver        = "solver"
	flagMaxIterations = "max-iterations"
	flagPole          = "pole"
	flagPoleJoint     = "pole-joint"

	loggerKey = "logger"
)

var armFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  flagPreset,
		Value: arm.DefaultPreset,
		Usage: "built-in arm to load: default or planar",
	},
	&cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   "load the arm from `FILE` instead of a preset",
	},
}

var app = &cli.App{
	Name:            "armik",
	Usage:           "pose articulated arms with forward and inverse kinematics",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Before: func(c *cli.Context) error {
		var logger logging.Logger
		if c.Bool(flagDebug) {
			logger = logging.NewDebugLogger("armik")
		} else {
			logger = logging.NewLogger("armik")
		}
		if c.App.Metadata == nil {
			c.App.Metadata = map[string]interface{}{}
		}
		c.App.Metadata[loggerKey] = logger
		logging.ReplaceGlobal(logger)
		return nil
	},
	Commands: []*cli.Command{
		{
			Name:      "fk",
			Usage:     "set joint values and print where every joint ends up",
			UsageText: "armik fk [--preset NAME | --config FILE] [--joints a,b,c...]",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  flagJoints,
					Usage: "comma separated joint values in radians, one per joint or one per rotational joint",
				},
			}, armFlags...),
			Action: ForwardKinematicsAction,
		},
		{
			Name:      "solve",
			Usage:     "move the arm towards a target pose and print the result",
			UsageText: "armik solve [--preset NAME | --config FILE] --target x,y,z [other options]",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     flagTarget,
					Required: true,
					Usage:    "target position x,y,z in the arm root frame",
				},
				&cli.StringFlag{
					Name:  flagAxisAngle,
					Usage: "target orientation th,x,y,z with th in radians; identity when unset",
				},
				&cli.StringFlag{
					Name:  flagSolver,
					Usage: "override the configured solver: jacobian or ccd",
				},
				&cli.IntFlag{
					Name:  flagMaxIterations,
					Usage: "override the configured iteration bound",
				},
				&cli.StringFlag{
					Name:  flagPole,
					Usage: "pole position x,y,z the pole joint swings towards (jacobian only)",
				},
				&cli.StringFlag{
					Name:  flagPoleJoint,
					Value: "elbow_y",
					Usage: "joint biased towards the pole",
				},
			}, armFlags...),
			Action: SolveAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of an arm config file",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
