// Command markflow inspects workflow configuration and moves content
// elements stored as JSON files through their workflows.
//
//	markflow -w workflows.yaml workflows
//	markflow -w workflows.yaml element create 1 article --field title=Intro
//	markflow -w workflows.yaml init 1
//	markflow -w workflows.yaml apply 1 review submit --note "ready for review"
//	markflow -w workflows.yaml notes 1
package main
