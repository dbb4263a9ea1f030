/*

Process of analysis

Graph Text ->
	parse ->
Control Flow Graph (cfg) ->
	order, dominate, loops ->
Canonical Graph ->
	dataflow (df) ->
Live Sets (live) ->
	render ->
Report Text

*/
package compiler
