package chain

// bountyABI covers the parts of the challenge contract this service calls.
const bountyABI = `[
  {"type":"function","name":"challenges","stateMutability":"view",
   "inputs":[{"name":"","type":"uint256"}],
   "outputs":[
     {"name":"challengeId","type":"uint256"},
     {"name":"creator","type":"address"},
     {"name":"bountyAmount","type":"uint256"},
     {"name":"title","type":"string"},
     {"name":"description","type":"string"},
     {"name":"requirements","type":"string"},
     {"name":"challengeStatus","type":"uint8"},
     {"name":"submissionsCount","type":"uint256"},
     {"name":"startTime","type":"uint256"},
     {"name":"duration","type":"uint256"},
     {"name":"winner","type":"address"}]},
  {"type":"function","name":"getActiveChallenges","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"challengeId","type":"uint256"},
     {"name":"creator","type":"address"},
     {"name":"bountyAmount","type":"uint256"},
     {"name":"title","type":"string"},
     {"name":"description","type":"string"},
     {"name":"requirements","type":"string"},
     {"name":"tags","type":"string[]"},
     {"name":"challengeStatus","type":"uint8"},
     {"name":"submissionsCount","type":"uint256"},
     {"name":"startTime","type":"uint256"},
     {"name":"duration","type":"uint256"},
     {"name":"winner","type":"address"}]}]},
  {"type":"function","name":"getChallengeRemainingTime","stateMutability":"view",
   "inputs":[{"name":"_challengeId","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"submitSolution","stateMutability":"nonpayable",
   "inputs":[{"name":"_challengeId","type":"uint256"},{"name":"_solutionHash","type":"bytes32"}],
   "outputs":[]},
  {"type":"function","name":"createChallenge","stateMutability":"payable",
   "inputs":[
     {"name":"_title","type":"string"},
     {"name":"_description","type":"string"},
     {"name":"_requirements","type":"string"},
     {"name":"_tags","type":"string[]"},
     {"name":"_bountyAmount","type":"uint256"},
     {"name":"_durationInDays","type":"uint256"}],
   "outputs":[]},
  {"type":"function","name":"resolveExpiredChallenge","stateMutability":"nonpayable",
   "inputs":[{"name":"_challengeId","type":"uint256"}],
   "outputs":[]}
]`

const certificateABI = `[
  {"type":"function","name":"hasMinted","stateMutability":"view",
   "inputs":[{"name":"","type":"address"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"mintCertificate","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"metadataIndex","type":"uint256"}],
   "outputs":[]}
]`
